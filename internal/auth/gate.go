package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/joshua-takyi/festa/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	MethodIdentity = "identity"
	MethodSecret   = "secret"

	sharedSecretSubject = "shared-secret"
)

// SecretMatcher compares a candidate against the static admin secret, either
// a bcrypt hash or a plain value. Comparison is case-sensitive.
type SecretMatcher struct {
	plain []byte
	hash  []byte
}

func NewSecretMatcher(plain, bcryptHash string) SecretMatcher {
	m := SecretMatcher{}
	if bcryptHash != "" {
		m.hash = []byte(bcryptHash)
	} else if plain != "" {
		m.plain = []byte(plain)
	}
	return m
}

func (m SecretMatcher) Configured() bool {
	return len(m.hash) > 0 || len(m.plain) > 0
}

func (m SecretMatcher) Match(candidate string) bool {
	if candidate == "" {
		return false
	}
	if len(m.hash) > 0 {
		return bcrypt.CompareHashAndPassword(m.hash, []byte(candidate)) == nil
	}
	if len(m.plain) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(m.plain, []byte(candidate)) == 1
}

// Credentials are whatever the caller presented when opening an admin
// session. Any subset may be empty.
type Credentials struct {
	IdentityToken string
	Email         string
	Password      string
	Secret        string
}

// Session is an opened admin session: a capability token to present on
// every mutating request.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Method    string    `json:"method"`
}

// Gate decides whether credentials unlock admin operations and, if so,
// issues a capability token.
type Gate struct {
	identity IdentityProvider
	secret   SecretMatcher
	issuer   *Issuer
	logger   *slog.Logger
}

func NewGate(identity IdentityProvider, secret SecretMatcher, issuer *Issuer, logger *slog.Logger) *Gate {
	return &Gate{
		identity: identity,
		secret:   secret,
		issuer:   issuer,
		logger:   logger,
	}
}

func (g *Gate) Issuer() *Issuer { return g.issuer }

// Open checks the identity collaborator first and the shared secret second.
func (g *Gate) Open(ctx context.Context, creds Credentials) (*Session, error) {
	if ident := g.lookupIdentity(ctx, creds); ident.IsAdmin() {
		return g.issue(ident.UserID, MethodIdentity)
	}

	if g.secret.Match(creds.Secret) {
		return g.issue(sharedSecretSubject, MethodSecret)
	}

	return nil, &models.AuthorizationError{Reason: "credentials rejected"}
}

func (g *Gate) lookupIdentity(ctx context.Context, creds Credentials) *Identity {
	if g.identity == nil {
		return nil
	}

	token := creds.IdentityToken
	if token == "" && creds.Email != "" && creds.Password != "" {
		signedIn, err := g.identity.SignIn(ctx, creds.Email, creds.Password)
		if err != nil {
			g.logger.Info("Identity sign-in failed", "email", creds.Email, "error", err)
			return nil
		}
		token = signedIn
	}
	if token == "" {
		return nil
	}

	ident, err := g.identity.Lookup(ctx, token)
	if err != nil {
		g.logger.Info("Identity lookup failed", "error", err)
		return nil
	}
	return ident
}

func (g *Gate) issue(subject, method string) (*Session, error) {
	token, expires, err := g.issuer.Issue(subject, method)
	if err != nil {
		return nil, err
	}
	g.logger.Info("Admin session opened", "subject", subject, "method", method, "expires_at", expires)
	return &Session{Token: token, ExpiresAt: expires, Method: method}, nil
}
