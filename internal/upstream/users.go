package upstream

import (
	"context"
	"net/http"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

// Me fetches the authenticated visitor's profile.
func (c *Client) Me(ctx context.Context, ts TokenSource) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &user, ts); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the authenticated visitor's profile and returns the
// stored result.
func (c *Client) UpdateProfile(ctx context.Context, ts TokenSource, user models.User) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, "/users/me", nil, user, &updated, ts); err != nil {
		return nil, err
	}
	return &updated, nil
}
