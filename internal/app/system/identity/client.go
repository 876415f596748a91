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
	"strings"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the provider's backend API root.
const DefaultBaseURL = "https://api.clerk.com/v1"

const membershipPageLimit = 100

// APIError is a non-2xx response from the provider.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity provider: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("identity provider: %d: %s", e.Status, e.Message)
}

// Client talks to the provider's backend API using a secret key.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a Client. The secret key is sent as a bearer token on
// every request.
func NewClient(baseURL, secretKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: secretKey,
		TokenType:   "Bearer",
	}))
	hc.Timeout = timeout
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     logger,
	}
}

type apiOrganization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type apiMembership struct {
	Role           string          `json:"role"`
	Organization   apiOrganization `json:"organization"`
	PublicUserData struct {
		UserID     string `json:"user_id"`
		Identifier string `json:"identifier"`
	} `json:"public_user_data"`
}

type apiMembershipList struct {
	Data       []apiMembership `json:"data"`
	TotalCount int             `json:"total_count"`
}

type apiInvitation struct {
	ID             string `json:"id"`
	EmailAddress   string `json:"email_address"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id"`
	Status         string `json:"status"`
}

type apiErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Message     string `json:"message"`
		LongMessage string `json:"long_message"`
	} `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		var eb apiErrorBody
		if json.NewDecoder(resp.Body).Decode(&eb) == nil && len(eb.Errors) > 0 {
			apiErr.Code = eb.Errors[0].Code
			apiErr.Message = eb.Errors[0].Message
			if eb.Errors[0].LongMessage != "" {
				apiErr.Message = eb.Errors[0].LongMessage
			}
		}
		c.log.Warn("identity provider request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func toMemberships(in []apiMembership) []Membership {
	out := make([]Membership, 0, len(in))
	for _, m := range in {
		out = append(out, Membership{
			OrgID:   m.Organization.ID,
			OrgName: m.Organization.Name,
			OrgSlug: m.Organization.Slug,
			UserID:  m.PublicUserData.UserID,
			Email:   m.PublicUserData.Identifier,
			Role:    normalize.Role(m.Role),
		})
	}
	return out
}

// ListUserMemberships returns the organizations a user belongs to, in the
// provider's order.
func (c *Client) ListUserMemberships(ctx context.Context, userID string) ([]Membership, error) {
	var out apiMembershipList
	path := fmt.Sprintf("/users/%s/organization_memberships?limit=%d", url.PathEscape(userID), membershipPageLimit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return toMemberships(out.Data), nil
}

// ListOrganizationMemberships returns the members of an organization.
func (c *Client) ListOrganizationMemberships(ctx context.Context, orgID string) ([]Membership, error) {
	var out apiMembershipList
	path := fmt.Sprintf("/organizations/%s/memberships?limit=%d", url.PathEscape(orgID), membershipPageLimit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return toMemberships(out.Data), nil
}

// CreateOrganization creates an organization owned by createdBy.
func (c *Client) CreateOrganization(ctx context.Context, name, slug, createdBy string) (Organization, error) {
	in := map[string]string{"name": name, "slug": slug, "created_by": createdBy}
	var out apiOrganization
	if err := c.do(ctx, http.MethodPost, "/organizations", in, &out); err != nil {
		return Organization{}, err
	}
	return Organization{ID: out.ID, Name: out.Name, Slug: out.Slug}, nil
}

// DeleteOrganization removes an organization. Missing organizations are
// not an error.
func (c *Client) DeleteOrganization(ctx context.Context, orgID string) error {
	err := c.do(ctx, http.MethodDelete, "/organizations/"+url.PathEscape(orgID), nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// CreateMembership adds userID to orgID with role.
func (c *Client) CreateMembership(ctx context.Context, orgID, userID, role string) error {
	in := map[string]string{"user_id": userID, "role": role}
	return c.do(ctx, http.MethodPost, "/organizations/"+url.PathEscape(orgID)+"/memberships", in, nil)
}

// CreateInvitation has the provider email an invitation to join orgID.
func (c *Client) CreateInvitation(ctx context.Context, r InvitationRequest) (Invitation, error) {
	in := map[string]string{
		"email_address":   r.Email,
		"inviter_user_id": r.InviterID,
		"role":            r.Role,
		"redirect_url":    r.RedirectURL,
	}
	var out apiInvitation
	if err := c.do(ctx, http.MethodPost, "/organizations/"+url.PathEscape(r.OrgID)+"/invitations", in, &out); err != nil {
		return Invitation{}, err
	}
	return Invitation{
		ID:     out.ID,
		OrgID:  out.OrganizationID,
		Email:  out.EmailAddress,
		Role:   normalize.Role(out.Role),
		Status: out.Status,
	}, nil
}
