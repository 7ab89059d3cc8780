package backend

import (
	"context"

	"hotel_manager/internal/domain"
)

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var out domain.Session
	err := c.postJSON(ctx, "/login", "/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.postJSON(ctx, "/register", "/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/logout", "/logout", token, nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.postJSON(ctx, "/forgot-password", "/forgot-password", "", map[string]string{"email": email}, &out)
	return out.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.postJSON(ctx, "/reset-password", "/reset-password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out.Message, err
}

func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Profile, error) {
	var out domain.Profile
	err := c.get(ctx, "/user", "/user", token, &out)
	return out, err
}
