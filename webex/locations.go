package webex

import (
	"context"
	"net/url"
	"strconv"
)

// Location is a Webex location.
type Location struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	OrgID string `json:"orgId"`
}

type locationPage struct {
	Items []Location `json:"items"`
}

// ListLocations returns every location of the organisation.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var locations []Location

	query := url.Values{"max": {strconv.Itoa(pageSize)}}
	err := listAll(ctx, c, c.endpoint("locations", query), func(page *locationPage) int {
		locations = append(locations, page.Items...)
		return len(page.Items)
	})
	if err != nil {
		return nil, err
	}

	return locations, nil
}
