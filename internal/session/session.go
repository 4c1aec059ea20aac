// Package session holds the signed-in user and companion settings.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/store"
)

// Providers the companion can talk to
const (
	ProviderOpenAI = "openai"
	ProviderGrok   = "grok"
)

// ErrNotAuthenticated is returned by flows that need a signed-in user
var ErrNotAuthenticated = errors.New("not signed in")

// Context is read once per invocation and passed to the components that need it
type Context struct {
	Authenticated bool   `json:"isAuthenticated"`
	Email         string `json:"userEmail,omitempty"`
	Name          string `json:"userName,omitempty"`
	Provider      string `json:"provider"`
	APIKey        string `json:"-"`
}

// HasAPIKey reports whether a companion key is configured
func (c Context) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Load reads the session flags from st. Missing flags mean signed out.
func Load(ctx context.Context, st *store.Store) (Context, error) {
	var c Context
	values := map[string]*string{
		domain.KeyUserEmail:  &c.Email,
		domain.KeyUserName:   &c.Name,
		domain.KeyAIKey:      &c.APIKey,
		domain.KeyAIProvider: &c.Provider,
	}
	for key, dst := range values {
		v, _, err := st.Get(ctx, key)
		if err != nil {
			return Context{}, fmt.Errorf("load %s: %w", key, err)
		}
		*dst = v
	}

	auth, _, err := st.Get(ctx, domain.KeyAuthenticated)
	if err != nil {
		return Context{}, fmt.Errorf("load %s: %w", domain.KeyAuthenticated, err)
	}
	c.Authenticated = auth == "true"
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	return c, nil
}

// Login marks the user as signed in. An empty name falls back to the
// part of the email before the @.
func Login(ctx context.Context, st *store.Store, email, name string) (Context, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return Context{}, domain.NewValidationError("email", "must be a valid email address")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	for _, kv := range [][2]string{
		{domain.KeyAuthenticated, "true"},
		{domain.KeyUserEmail, email},
		{domain.KeyUserName, name},
	} {
		if err := st.Set(ctx, kv[0], kv[1]); err != nil && !store.IsUnavailable(err) {
			return Context{}, fmt.Errorf("login: %w", err)
		}
	}
	return Load(ctx, st)
}

// Logout clears the sign-in flags. Companion settings are kept.
func Logout(ctx context.Context, st *store.Store) error {
	for _, key := range []string{domain.KeyAuthenticated, domain.KeyUserEmail, domain.KeyUserName} {
		if err := st.Delete(ctx, key); err != nil && !store.IsUnavailable(err) {
			return fmt.Errorf("logout: %w", err)
		}
	}
	return nil
}

// Configure stores the companion provider and API key
func Configure(ctx context.Context, st *store.Store, provider, key string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case "":
		provider = ProviderOpenAI
	case ProviderOpenAI, ProviderGrok:
	default:
		return domain.NewValidationError("provider", "must be one of openai grok")
	}
	if err := st.Set(ctx, domain.KeyAIProvider, provider); err != nil && !store.IsUnavailable(err) {
		return fmt.Errorf("configure provider: %w", err)
	}
	if err := st.Set(ctx, domain.KeyAIKey, strings.TrimSpace(key)); err != nil && !store.IsUnavailable(err) {
		return fmt.Errorf("configure key: %w", err)
	}
	return nil
}

// Require returns ErrNotAuthenticated for a signed-out context
func (c Context) Require() error {
	if !c.Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}
