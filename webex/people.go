package webex

import (
	"context"
)

// Person is the subset of a Webex person the tool uses.
type Person struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Emails      []string `json:"emails"`
	OrgID       string   `json:"orgId"`
}

// Me returns the person the access token belongs to.
// It is the cheapest way to find out whether a token is valid.
func (c *Client) Me(ctx context.Context) (*Person, error) {
	var person Person
	if _, err := c.getJSON(ctx, c.endpoint("people/me", nil), &person); err != nil {
		return nil, err
	}
	return &person, nil
}
