package zia

import (
	"context"
	"net/url"

	"github.com/zscaler-hero/catscan/urlutil"
)

// Category is one URL category as returned by the urlCategories endpoints.
// Custom categories carry their member URLs in two lists: admin-entered
// urls and retained db-categorized urls.
type Category struct {
	ID                string   `json:"id"`
	Name              string   `json:"configuredName"`
	Description       string   `json:"description,omitempty"`
	Type              string   `json:"type,omitempty"`
	SuperCategory     string   `json:"superCategory,omitempty"`
	Custom            bool     `json:"customCategory"`
	URLs              []string `json:"urls,omitempty"`
	DBCategorizedURLs []string `json:"dbCategorizedUrls,omitempty"`
}

// DisplayName returns the configured name, falling back to the raw ID for
// predefined categories, which have no configured name.
func (c Category) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// MemberURLs merges the category's URL lists, dropping duplicates while
// preserving first-seen order.
func (c Category) MemberURLs() []string {
	merged := make([]string, 0, len(c.URLs)+len(c.DBCategorizedURLs))
	merged = append(merged, c.URLs...)
	merged = append(merged, c.DBCategorizedURLs...)
	return urlutil.Dedupe(merged)
}

// CustomCategories lists the admin-defined URL categories. The endpoint
// returns every category, predefined ones included; the full listing
// rebuilds the super-category index used to enrich lookup records before
// the result is filtered down to custom entries.
func (c *Client) CustomCategories(ctx context.Context) ([]Category, error) {
	var all []Category
	if err := c.get(ctx, "urlCategories/lite", "/urlCategories/lite", &all); err != nil {
		return nil, err
	}

	index := make(map[string]string, len(all))
	custom := make([]Category, 0, len(all))
	for _, cat := range all {
		if cat.SuperCategory != "" {
			index[cat.ID] = cat.SuperCategory
		}
		if cat.Custom {
			custom = append(custom, cat)
		}
	}
	c.superByID = index
	return custom, nil
}

// Category fetches one category with its full member URL lists.
func (c *Client) Category(ctx context.Context, id string) (Category, error) {
	var cat Category
	if err := c.get(ctx, "urlCategories/{id}", "/urlCategories/"+url.PathEscape(id), &cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}

// superOf resolves a vendor category ID to its super-category, or ""
// when the listing did not name one.
func (c *Client) superOf(categoryID string) string {
	return c.superByID[categoryID]
}
