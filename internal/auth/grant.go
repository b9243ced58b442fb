package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/festa/internal/models"
)

const capabilityIssuer = "festa-admin"

// Grant is proof that the current request carries a verified admin
// capability. The zero Grant authorizes nothing; only Issuer.Verify mints a
// usable one.
type Grant struct {
	subject string
	method  string
	expires time.Time
}

func (g Grant) IsAdmin() bool { return g.subject != "" }

func (g Grant) Subject() string { return g.subject }

// Method reports how the session was opened: "identity" or "secret".
func (g Grant) Method() string { return g.method }

func (g Grant) ExpiresAt() time.Time { return g.expires }

// Require returns an AuthorizationError unless g is an admin grant.
func (g Grant) Require() error {
	if !g.IsAdmin() {
		return &models.AuthorizationError{Reason: "no admin session"}
	}
	return nil
}

type capabilityClaims struct {
	Admin  bool   `json:"adm"`
	Method string `json:"amr"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies admin capability tokens.
type Issuer struct {
	key   []byte
	ttl   time.Duration
	clock models.Clock
}

func NewIssuer(key []byte, ttl time.Duration, clock models.Clock) *Issuer {
	if clock == nil {
		clock = models.RealClock{}
	}
	return &Issuer{key: key, ttl: ttl, clock: clock}
}

// Issue returns a signed token for subject and its expiry.
func (i *Issuer) Issue(subject, method string) (string, time.Time, error) {
	if len(i.key) == 0 {
		return "", time.Time{}, errors.New("capability signing key is not configured")
	}
	now := i.clock.Now()
	expires := now.Add(i.ttl)

	claims := capabilityClaims{
		Admin:  true,
		Method: method,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    capabilityIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign capability: %w", err)
	}
	return signed, expires, nil
}

// Verify checks signature, issuer and expiry of token and returns the grant
// it carries.
func (i *Issuer) Verify(token string) (Grant, error) {
	if token == "" {
		return Grant{}, &models.AuthorizationError{Reason: "missing admin token"}
	}

	parsed, err := jwt.ParseWithClaims(token, &capabilityClaims{}, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(capabilityIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return Grant{}, &models.AuthorizationError{Reason: "invalid admin token"}
	}

	claims, ok := parsed.Claims.(*capabilityClaims)
	if !ok || !parsed.Valid || !claims.Admin || claims.Subject == "" {
		return Grant{}, &models.AuthorizationError{Reason: "invalid admin token"}
	}

	return Grant{
		subject: claims.Subject,
		method:  claims.Method,
		expires: claims.ExpiresAt.Time,
	}, nil
}
