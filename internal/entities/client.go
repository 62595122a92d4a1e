// Package entities contains core storefront entities.
package entities

import "strings"

// Client is the storefront owner resolved from the request subdomain.
type Client struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	FantasyName string  `json:"fantasyName"`
	LogoURL     *string `json:"logoURL"`
	BannerURL   *string `json:"bannerURL"`
	Banner2URL  *string `json:"banner2URL"`
	VideoURL    *string `json:"videoURL"`
	Whatsapp    string  `json:"whatsapp,omitempty"`
	Instagram   string  `json:"instagram,omitempty"`
}

// MediaIDs returns the client's media references in display order.
func (c Client) MediaIDs() []string {
	ids := make([]string, 0, 4)
	for _, ref := range []*string{c.LogoURL, c.BannerURL, c.Banner2URL, c.VideoURL} {
		ids = appendRef(ids, ref)
	}
	return ids
}

func appendRef(ids []string, ref *string) []string {
	if ref == nil {
		return ids
	}
	if v := strings.TrimSpace(*ref); v != "" {
		ids = append(ids, v)
	}
	return ids
}
