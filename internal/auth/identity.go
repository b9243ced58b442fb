package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	RoleAdmin = "admin"
	RoleGuest = "guest"

	ProfileTable = "profiles"
)

// Identity is what the identity collaborator reports about a caller.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// GetSafeRole falls back to guest when no role is known.
func (i *Identity) GetSafeRole() string {
	if i == nil || i.Role == "" {
		return RoleGuest
	}
	return i.Role
}

// IdentityProvider resolves platform identities. Implementations may be
// absent; the gate then relies on the shared secret alone.
type IdentityProvider interface {
	Lookup(ctx context.Context, accessToken string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (string, error)
}

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// SupabaseIdentity validates Supabase access tokens and reads the caller's
// role from app metadata or the profiles table.
type SupabaseIdentity struct {
	repo      *models.SupabaseRepo
	jwks      *keyfunc.JWKS
	jwtSecret []byte
	logger    *slog.Logger
}

// NewSupabaseIdentity prepares token verification. A non-empty jwtSecret
// selects HS256 verification; otherwise the project's JWKS is fetched and
// refreshed in the background.
func NewSupabaseIdentity(ctx context.Context, repo *models.SupabaseRepo, supabaseURL, jwtSecret string, logger *slog.Logger) (*SupabaseIdentity, error) {
	s := &SupabaseIdentity{repo: repo, logger: logger}
	if jwtSecret != "" {
		s.jwtSecret = []byte(jwtSecret)
		return s, nil
	}

	jwksURL := strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               context.WithoutCancel(ctx),
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("JWKS refresh failed", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	s.jwks = jwks
	return s, nil
}

func (s *SupabaseIdentity) Close() {
	if s.jwks != nil {
		s.jwks.EndBackground()
	}
}

func (s *SupabaseIdentity) ValidateToken(tokenStr string) (*CustomClaims, error) {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if s.jwtSecret != nil {
			return s.jwtSecret, nil
		}
		return s.jwks.Keyfunc(t)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, keyFunc, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func (s *SupabaseIdentity) Lookup(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}

	ident := &Identity{UserID: claims.Subject, Email: claims.Email}
	if slices.Contains(claims.AppMetadata.Roles, RoleAdmin) {
		ident.Role = RoleAdmin
		return ident, nil
	}

	role, err := s.profileRole(accessToken, claims.Subject)
	if err != nil {
		s.logger.Info("Profile not found, using default role", "user_id", claims.Subject, "error", err)
		ident.Role = RoleGuest
		return ident, nil
	}
	ident.Role = role
	return ident, nil
}

func (s *SupabaseIdentity) profileRole(accessToken, userID string) (string, error) {
	client, err := s.repo.GetAuthenticatedClient(accessToken)
	if err != nil {
		return "", fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, _, err := client.From(ProfileTable).
		Select("role", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}

	var rows []struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return "", fmt.Errorf("failed to unmarshal profile rows: %w", err)
	}
	if len(rows) == 0 {
		return "", errors.New("profile not found")
	}
	if rows[0].Role == "" {
		return RoleGuest, nil
	}
	return rows[0].Role, nil
}

func (s *SupabaseIdentity) SignIn(ctx context.Context, email, password string) (string, error) {
	var resp *types.TokenResponse
	resp, err := s.repo.Client().Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return "", &models.ExternalServiceError{Service: "identity sign-in", Err: err}
	}
	if resp == nil || resp.AccessToken == "" {
		return "", &models.ExternalServiceError{Service: "identity sign-in", Err: errors.New("empty token response")}
	}
	return resp.AccessToken, nil
}
