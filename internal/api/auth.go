package api

import (
	"context"

	"github.com/cityconnect/cityconnect/internal/model"
)

// LoginRequest is the credential exchange payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the authenticated identity.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

// Login exchanges credentials for a bearer token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. It does not authenticate the caller.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/auth/register", req, nil)
}

// Me returns the identity behind the installed bearer token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
