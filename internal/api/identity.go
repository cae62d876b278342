// ABOUTME: Identity-service operations: auth lifecycle, users, roles, balances, airlines
// ABOUTME: Thin typed wrappers over the shared gateway client

package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// Identity is the gateway to the identity/account service.
type Identity struct {
	c *Client
}

// NewIdentity builds the identity-service gateway from a base URL and the
// shared interception policy.
func NewIdentity(baseURL string, policy *Policy) *Identity {
	return &Identity{c: NewClient(baseURL, policy)}
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Login authenticates with email and password. Validation and credential
// failures come back as *Error values; field-level messages are in
// Error.Fields.
func (i *Identity) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := i.c.post(ctx, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account. Field validation failures are returned
// as an *Error with Fields populated.
func (i *Identity) Register(ctx context.Context, req RegisterRequest) error {
	return i.c.post(ctx, "/api/auth/register", req, nil)
}

// Logout invalidates the server-side session for the current token.
func (i *Identity) Logout(ctx context.Context) error {
	return i.c.post(ctx, "/api/auth/logout", nil, nil)
}

// Me fetches the identity behind the current token.
func (i *Identity) Me(ctx context.Context) (*User, error) {
	var envelope struct {
		User User `json:"user"`
	}
	if err := i.c.get(ctx, "/api/auth/me", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.User, nil
}

// RefreshToken exchanges the current token for a fresh one.
func (i *Identity) RefreshToken(ctx context.Context) (string, error) {
	var envelope struct {
		AccessToken string `json:"access_token"`
	}
	if err := i.c.post(ctx, "/api/auth/refresh", nil, &envelope); err != nil {
		return "", err
	}
	return envelope.AccessToken, nil
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users       []User `json:"users"`
	Total       int    `json:"total"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"current_page"`
}

// ListUsers fetches a page of accounts. Admin only on the server side.
func (i *Identity) ListUsers(ctx context.Context, page, perPage int) (*UserPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var result UserPage
	if err := i.c.get(ctx, "/api/users", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser fetches one account by id.
func (i *Identity) GetUser(ctx context.Context, userID int64) (*User, error) {
	var envelope struct {
		User User `json:"user"`
	}
	if err := i.c.get(ctx, fmt.Sprintf("/api/users/%d", userID), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.User, nil
}

// UpdateUser updates profile fields on an account.
func (i *Identity) UpdateUser(ctx context.Context, userID int64, req UserUpdateRequest) error {
	return i.c.put(ctx, fmt.Sprintf("/api/users/%d", userID), req, nil)
}

// DeleteUser removes an account. Admin only on the server side.
func (i *Identity) DeleteUser(ctx context.Context, userID int64) error {
	return i.c.delete(ctx, fmt.Sprintf("/api/users/%d", userID), nil)
}

// ChangePassword rotates an account password.
func (i *Identity) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return i.c.put(ctx, fmt.Sprintf("/api/users/%d/password", userID), body, nil)
}

// UpdateRole assigns a new role to an account. Admin only on the server side.
func (i *Identity) UpdateRole(ctx context.Context, userID int64, newRole string) error {
	body := map[string]string{"new_role": newRole}
	return i.c.put(ctx, fmt.Sprintf("/api/users/%d/role", userID), body, nil)
}

// AddBalance credits an account balance. The caller refreshes its identity
// afterwards; this call does not return the new balance.
func (i *Identity) AddBalance(ctx context.Context, userID int64, amount float64) error {
	body := map[string]float64{"amount": amount}
	return i.c.post(ctx, fmt.Sprintf("/api/users/%d/balance", userID), body, nil)
}

// UploadProfilePicture sends a profile image as a multipart form.
func (i *Identity) UploadProfilePicture(ctx context.Context, userID int64, fileName string, file io.Reader) error {
	return i.c.upload(ctx, fmt.Sprintf("/api/users/%d/profile-picture", userID), "file", fileName, file, nil)
}

// ListAirlines fetches airlines, optionally restricted to active ones.
func (i *Identity) ListAirlines(ctx context.Context, activeOnly bool) ([]Airline, error) {
	query := url.Values{}
	query.Set("active_only", strconv.FormatBool(activeOnly))

	var envelope struct {
		Airlines []Airline `json:"airlines"`
	}
	if err := i.c.get(ctx, "/api/airlines", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Airlines, nil
}

// CreateAirline registers a new airline. Admin only on the server side.
func (i *Identity) CreateAirline(ctx context.Context, req AirlineRequest) (*Airline, error) {
	var envelope struct {
		Airline Airline `json:"airline"`
	}
	if err := i.c.post(ctx, "/api/airlines", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Airline, nil
}

// UpdateAirline updates an airline record.
func (i *Identity) UpdateAirline(ctx context.Context, airlineID int64, req AirlineRequest) error {
	return i.c.put(ctx, fmt.Sprintf("/api/airlines/%d", airlineID), req, nil)
}

// DeleteAirline removes an airline record.
func (i *Identity) DeleteAirline(ctx context.Context, airlineID int64) error {
	return i.c.delete(ctx, fmt.Sprintf("/api/airlines/%d", airlineID), nil)
}
