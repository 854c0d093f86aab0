package urlutil

import (
	"golang.org/x/net/publicsuffix"
)

// RegistrableDomain returns the eTLD+1 for a category entry, so that
// "shop.eu.example.co.uk/checkout" and ".example.co.uk" both roll up to
// "example.co.uk". When the host has no recognizable public suffix (bare
// labels, IP addresses), the bare host is returned instead.
func RegistrableDomain(entry string) string {
	host := Host(entry)
	if host == "" {
		return ""
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
