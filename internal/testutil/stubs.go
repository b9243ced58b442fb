package testutil

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/media"
)

// TokenKey signs capability tokens in tests.
var TokenKey = []byte("test-capability-key")

// NewIssuer returns an Issuer over TokenKey with a one hour ttl.
func NewIssuer() *auth.Issuer {
	return auth.NewIssuer(TokenKey, time.Hour, nil)
}

// AdminGrant mints and verifies a real capability, so services see exactly
// what the middleware would hand them.
func AdminGrant(t *testing.T) auth.Grant {
	t.Helper()
	issuer := NewIssuer()
	token, _, err := issuer.Issue("test-admin", auth.MethodSecret)
	if err != nil {
		t.Fatalf("failed to issue capability: %v", err)
	}
	grant, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify capability: %v", err)
	}
	return grant
}

// StubGenerator returns Reply or Err and records every prompt it was given.
type StubGenerator struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
}

func (g *StubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.Prompts = append(g.Prompts, prompt)
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

// StubUploader keeps uploads in memory.
type StubUploader struct {
	mu       sync.Mutex
	Err      error
	Uploaded map[string][]byte
	Removed  []string
}

func NewStubUploader() *StubUploader {
	return &StubUploader{Uploaded: make(map[string][]byte)}
}

func (u *StubUploader) Upload(ctx context.Context, obj media.Object) (*media.Asset, error) {
	if u.Err != nil {
		return nil, u.Err
	}
	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	key := media.PhotosFolder + "/" + obj.Filename
	u.Uploaded[key] = body
	return &media.Asset{URL: "https://media.test/" + key, Key: key}, nil
}

func (u *StubUploader) Remove(ctx context.Context, asset *media.Asset) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.Uploaded, asset.Key)
	u.Removed = append(u.Removed, asset.Key)
	return nil
}
