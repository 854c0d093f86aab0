package zia

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Audience is the OAuth audience the Zscaler Identity service expects for
// API access tokens.
const Audience = "https://api.zscaler.com"

// tokenPath is the Zscaler Identity token endpoint path.
const tokenPath = "/oauth2/v1/token"

// tokenTimeout bounds a single token POST.
const tokenTimeout = 30 * time.Second

// NewHTTPClient returns an HTTP client that obtains an access token from
// Zscaler Identity via the OAuth 2.0 client credentials flow and injects
// it as a bearer header on every request, refreshing before expiry. The
// credentials and audience travel in the form body, which is the style the
// identity service expects.
func NewHTTPClient(ctx context.Context, identityBaseURL, clientID, clientSecret string) *http.Client {
	cc := clientcredentials.Config{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		TokenURL:       strings.TrimRight(identityBaseURL, "/") + tokenPath,
		AuthStyle:      oauth2.AuthStyleInParams,
		EndpointParams: url.Values{"audience": {Audience}},
	}

	// Bound the token exchange itself; API calls get their own timeout.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: tokenTimeout})
	client := cc.Client(ctx)
	client.Timeout = requestTimeout
	return client
}
