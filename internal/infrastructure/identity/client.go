package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/carewell-health/carewell/config"
	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/internal/rbac"
	"github.com/carewell-health/carewell/pkg/jwt"
)

var (
	ErrUserNotFound = errors.New("identity: user not found")
)

// Client talks to the hosted identity provider over its REST API. The
// provider owns session issuance, password handling and user records;
// this client only reads sessions and manages role metadata.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	verifier   *jwt.TokenVerifier
	cookieName string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(cfg config.IdentityConfig, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		verifier:   jwt.NewTokenVerifier(cfg.JWTSecret),
		cookieName: cfg.CookieName,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type providerUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

type providerUserList struct {
	Users []providerUser `json:"users"`
	Total int64          `json:"total"`
}

// CurrentSession resolves the principal from the provider session cookie.
// It returns (nil, nil) when no usable session is on the request and an
// error only when the provider itself cannot be reached. The token is
// verified locally first so obviously invalid cookies never cost a
// network round trip, then the provider is asked for the authoritative
// record, which also covers server-side revocation.
func (c *Client) CurrentSession(ctx context.Context, r *http.Request) (*repository.Session, error) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	if _, err := c.verifier.Verify(cookie.Value); err != nil {
		return nil, nil
	}

	user, err := c.fetchCurrentUser(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return sessionFromProviderUser(user)
}

func (c *Client) fetchCurrentUser(ctx context.Context, accessToken string) (*providerUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode identity provider response: %w", err)
	}
	return &user, nil
}

func sessionFromProviderUser(user *providerUser) (*repository.Session, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("identity provider returned malformed user id: %w", err)
	}
	return &repository.Session{
		UserID: id,
		Email:  user.Email,
		Role:   metadataString(user.UserMetadata, "role"),
	}, nil
}

func metadataString(metadata map[string]interface{}, key string) string {
	value, _ := metadata[key].(string)
	return value
}

// ListUsers pages through the provider's admin user API.
func (c *Client) ListUsers(ctx context.Context, page, limit int) ([]repository.DirectoryUser, int64, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(limit))

	body, err := c.adminRequest(ctx, http.MethodGet, "/auth/v1/admin/users?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	var list providerUserList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, 0, fmt.Errorf("decode identity provider response: %w", err)
	}

	users := make([]repository.DirectoryUser, 0, len(list.Users))
	for i := range list.Users {
		user, err := directoryUserFromProvider(&list.Users[i])
		if err != nil {
			c.log.Warnf("Skipping malformed directory user: %+v", err)
			continue
		}
		users = append(users, *user)
	}
	return users, list.Total, nil
}

// GetUser fetches a single user record from the provider. A missing
// record is (nil, nil), not an error.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*repository.DirectoryUser, error) {
	body, err := c.adminRequest(ctx, http.MethodGet, "/auth/v1/admin/users/"+id.String(), nil)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user providerUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode identity provider response: %w", err)
	}
	return directoryUserFromProvider(&user)
}

// UpdateUserRole rewrites the role key in the user's metadata bag.
func (c *Client) UpdateUserRole(ctx context.Context, id uuid.UUID, role rbac.Role) error {
	payload, err := json.Marshal(map[string]interface{}{
		"user_metadata": map[string]string{"role": string(role)},
	})
	if err != nil {
		return err
	}
	_, err = c.adminRequest(ctx, http.MethodPut, "/auth/v1/admin/users/"+id.String(), payload)
	return err
}

func (c *Client) adminRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func directoryUserFromProvider(user *providerUser) (*repository.DirectoryUser, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("identity provider returned malformed user id: %w", err)
	}
	return &repository.DirectoryUser{
		ID:       id,
		Email:    user.Email,
		FullName: metadataString(user.UserMetadata, "full_name"),
		Role:     metadataString(user.UserMetadata, "role"),
	}, nil
}
