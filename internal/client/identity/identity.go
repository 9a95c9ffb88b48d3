// Package identity maps the stored bearer credential's claimed subject to the
// internal numeric user id by scanning the user directory.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/api"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/session"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

// Claims is the typed view of the token payload. Subject identification
// checks sub, then email, then username, then user, in that order.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	User     string `json:"user"`
	jwt.RegisteredClaims
}

// Directory lists all users; satisfied by *api.Client.
type Directory interface {
	Users(ctx context.Context) ([]models.User, error)
}

type Resolver struct {
	sess *session.Session
	dir  Directory
}

func NewResolver(sess *session.Session, dir Directory) *Resolver {
	return &Resolver{sess: sess, dir: dir}
}

// Resolve returns the internal user id for the stored credential. The result
// is memoized on the session and not re-validated; only logout drops it.
// Decoding happens before any network call, so a malformed token never costs
// a directory round-trip.
func (r *Resolver) Resolve(ctx context.Context) (int64, error) {
	if id, ok := r.sess.CachedUserID(); ok {
		return id, nil
	}

	tok, err := r.sess.Token()
	if err != nil {
		if errors.Is(err, session.ErrNoCredential) {
			return 0, api.ErrCredentialMissing
		}
		return 0, err
	}

	subject, err := ClaimedSubject(tok)
	if err != nil {
		return 0, err
	}

	users, err := r.dir.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch user directory: %w", err)
	}
	// First match wins; the directory is not assumed to be unique on these fields.
	for _, u := range users {
		if u.Email == subject || (u.Username != "" && u.Username == subject) || (u.Sub != "" && u.Sub == subject) {
			r.sess.SetUserID(u.ID)
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: subject %q", api.ErrIdentityNotFound, subject)
}

// ClaimedSubject decodes the token without verifying its signature (the
// server is the verifier; the client only needs the claimed subject) and
// returns the highest-priority usable subject field.
func ClaimedSubject(token string) (string, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrInvalidCredential, err)
	}
	for _, s := range []string{claims.Subject, claims.Email, claims.Username, claims.User} {
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: no usable subject claim", api.ErrInvalidCredential)
}
