// Package session holds per-process login state: the stored bearer credential
// and the internal user id memoized after identity resolution.
package session

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrNoCredential indicates no stored token was found under any known name.
var ErrNoCredential = errors.New("no stored credential")

// tokenEnv is checked before any file; it wins when set.
const tokenEnv = "CHARGERCONTROL_TOKEN"

// tokenFiles are probed in order. The first name is the one new logins write;
// the others were used by earlier releases and are still honored on read.
var tokenFiles = []string{
	".chargercontrol_token",
	".chargerctl_token",
	".evcharge_token",
}

// Session is created at CLI start and torn down by logout. The memoized user
// id lives for the session's lifetime; it is not invalidated on token refresh
// within a live session (matching the observed product behavior).
type Session struct {
	mu     sync.Mutex
	userID int64
	hasID  bool
}

func New() *Session { return &Session{} }

// Token probes the fixed ordered list of storage locations and returns the
// first credential found. A miss is ErrNoCredential and is not retried.
func (s *Session) Token() (string, error) {
	if v := strings.TrimSpace(os.Getenv(tokenEnv)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrNoCredential
	}
	for _, name := range tokenFiles {
		b, err := os.ReadFile(home + string(os.PathSeparator) + name)
		if err != nil {
			continue
		}
		if tok := strings.TrimSpace(string(b)); tok != "" {
			return tok, nil
		}
	}
	return "", ErrNoCredential
}

// Save stores the token under the current file name.
func (s *Session) Save(token string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return os.WriteFile(home+string(os.PathSeparator)+tokenFiles[0], []byte(token), 0600)
}

// Clear removes all stored token files and drops the memoized identity.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.userID = 0
	s.hasID = false
	s.mu.Unlock()

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	for _, name := range tokenFiles {
		_ = os.Remove(home + string(os.PathSeparator) + name)
	}
	return nil
}

// CachedUserID returns the memoized internal user id, if resolved.
func (s *Session) CachedUserID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.hasID
}

func (s *Session) SetUserID(id int64) {
	s.mu.Lock()
	s.userID = id
	s.hasID = true
	s.mu.Unlock()
}
