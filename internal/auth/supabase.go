package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/condoflow/backend/internal/config"
	supabase "github.com/nedpals/supabase-go"
)

type supabaseProvider struct {
	client     *supabase.Client
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewSupabaseProvider builds the identity provider over the Supabase admin
// API using the service role key. Magic links go through the GoTrue
// generate_link endpoint so the link can be returned instead of emailed.
func NewSupabaseProvider(cfg *config.SupabaseConfig) Provider {
	client := supabase.CreateClient(cfg.URL, cfg.ServiceKey)
	if client == nil {
		log.Fatalf("failed to create Supabase client")
	}
	return &supabaseProvider{
		client:     client,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *supabaseProvider) CreateAccount(ctx context.Context, email string, metadata map[string]interface{}) (*Account, error) {
	user, err := p.client.Admin.CreateUser(ctx, supabase.AdminUserParams{
		Email:        email,
		EmailConfirm: true,
		UserMetadata: metadata,
	})
	if err != nil {
		if isAlreadyRegistered(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &Account{ID: user.ID, Email: user.Email}, nil
}

func (p *supabaseProvider) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	// generate_link for a known address returns the underlying user record
	// without sending anything, which doubles as a lookup by email.
	link, err := p.generateLink(ctx, email, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up account by email: %w", err)
	}
	return &Account{ID: link.User.ID, Email: link.User.Email}, nil
}

func (p *supabaseProvider) GenerateSignInLink(ctx context.Context, email, redirectTo string) (string, error) {
	link, err := p.generateLink(ctx, email, redirectTo)
	if err != nil {
		return "", fmt.Errorf("failed to generate sign-in link: %w", err)
	}
	return link.ActionLink, nil
}

type generateLinkResponse struct {
	ActionLink string `json:"action_link"`
	User       struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (p *supabaseProvider) generateLink(ctx context.Context, email, redirectTo string) (*generateLinkResponse, error) {
	payload := map[string]string{
		"type":  "magiclink",
		"email": email,
	}
	if redirectTo != "" {
		payload["redirect_to"] = redirectTo
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := p.baseURL + "/auth/v1/admin/generate_link"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.serviceKey)
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generate_link returned status %d: %s", resp.StatusCode, raw)
	}

	var link generateLinkResponse
	if err := json.Unmarshal(raw, &link); err != nil {
		return nil, err
	}
	// Older GoTrue versions return the user fields at the top level.
	if link.User.ID == "" {
		var flat struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		if err := json.Unmarshal(raw, &flat); err == nil {
			link.User.ID = flat.ID
			link.User.Email = flat.Email
		}
	}
	return &link, nil
}

func isAlreadyRegistered(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "already been registered") ||
		strings.Contains(msg, "email_exists")
}
