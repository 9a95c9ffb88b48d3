package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/api"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/session"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type fakeDirectory struct {
	users []models.User
	calls int
}

func (d *fakeDirectory) Users(context.Context) ([]models.User, error) {
	d.calls++
	return d.users, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHARGERCONTROL_TOKEN", token)
	return session.New()
}

func TestResolve_MalformedTokenSkipsDirectory(t *testing.T) {
	for _, tok := range []string{"not-a-jwt", "two.parts", "a.!!!notbase64!!!.c"} {
		dir := &fakeDirectory{}
		r := NewResolver(newSession(t, tok), dir)
		_, err := r.Resolve(context.Background())
		if !errors.Is(err, api.ErrInvalidCredential) {
			t.Fatalf("token %q: want ErrInvalidCredential, got %v", tok, err)
		}
		if dir.calls != 0 {
			t.Fatalf("token %q: directory must not be fetched for a malformed credential", tok)
		}
	}
}

func TestResolve_NoUsableSubject(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"role": "user"})
	r := NewResolver(newSession(t, tok), &fakeDirectory{})
	if _, err := r.Resolve(context.Background()); !errors.Is(err, api.ErrInvalidCredential) {
		t.Fatalf("want ErrInvalidCredential, got %v", err)
	}
}

func TestResolve_SubjectPriority(t *testing.T) {
	// sub outranks email.
	tok := signToken(t, jwt.MapClaims{"sub": "alice@x.com", "email": "other@x.com"})
	dir := &fakeDirectory{users: []models.User{
		{ID: 1, Email: "other@x.com"},
		{ID: 2, Email: "alice@x.com"},
	}}
	r := NewResolver(newSession(t, tok), dir)
	id, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Fatalf("want id 2 via sub claim, got %d", id)
	}
}

func TestResolve_UsernameFallback(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"username": "bob"})
	dir := &fakeDirectory{users: []models.User{{ID: 9, Email: "bob@x.com", Username: "bob"}}}
	r := NewResolver(newSession(t, tok), dir)
	id, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id != 9 {
		t.Fatalf("want 9, got %d", id)
	}
}

func TestResolve_IdentityNotFound(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "ghost@x.com"})
	dir := &fakeDirectory{users: []models.User{{ID: 1, Email: "someone@x.com"}}}
	r := NewResolver(newSession(t, tok), dir)
	if _, err := r.Resolve(context.Background()); !errors.Is(err, api.ErrIdentityNotFound) {
		t.Fatalf("want ErrIdentityNotFound, got %v", err)
	}
}

func TestResolve_Memoized(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "alice@x.com"})
	dir := &fakeDirectory{users: []models.User{{ID: 4, Email: "alice@x.com"}}}
	sess := newSession(t, tok)
	r := NewResolver(sess, dir)

	first, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second || first != 4 {
		t.Fatalf("ids: %d %d", first, second)
	}
	if dir.calls != 1 {
		t.Fatalf("directory must be fetched once, got %d", dir.calls)
	}
}

func TestResolve_MissingCredential(t *testing.T) {
	r := NewResolver(newSession(t, ""), &fakeDirectory{})
	if _, err := r.Resolve(context.Background()); !errors.Is(err, api.ErrCredentialMissing) {
		t.Fatalf("want ErrCredentialMissing, got %v", err)
	}
}
