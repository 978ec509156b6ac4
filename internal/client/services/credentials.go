// Package services contains the application services behind the admin
// REPL: session handling on top of the local credential store and the
// cached screen reads and deletes.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/homepoint/internal/common"
	"github.com/dmitrijs2005/homepoint/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Session is what the credential store holds for the signed-in operator.
// ExpiresAt is zero when the token carries no readable expiry.
type Session struct {
	Token     string
	UserName  string
	ExpiresAt time.Time
}

// CredentialStore keeps the session token in the local metadata table.
// With a passphrase the token is sealed with a key derived from it; the salt
// is stored next to the token.
//
// The session is read and unsealed once and then served from memory; Save
// and Clear keep that copy in step with the table. Only the expiry is
// checked on every call.
type CredentialStore struct {
	repo       metadata.Repository
	passphrase []byte
	now        func() time.Time
	deriveKey  func(passphrase, salt []byte) []byte

	mu      sync.Mutex
	loaded  bool
	sess    Session
	loadErr error
}

func NewCredentialStore(repo metadata.Repository, passphrase string) *CredentialStore {
	return &CredentialStore{
		repo:       repo,
		passphrase: []byte(passphrase),
		now:        time.Now,
		deriveKey:  cryptox.DeriveKey,
	}
}

// Save replaces the stored session.
func (s *CredentialStore) Save(ctx context.Context, token, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string][]byte{
		common.MetadataKeyUserName: []byte(userName),
	}
	var remove []string

	if len(s.passphrase) == 0 {
		values[common.MetadataKeyToken] = []byte(token)
		remove = append(remove, common.MetadataKeySalt)
	} else {
		salt := cryptox.NewSalt()
		key := s.deriveKey(s.passphrase, salt)
		sealed, err := cryptox.Seal([]byte(token), key)
		common.WipeByteArray(key)
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		values[common.MetadataKeyToken] = sealed
		values[common.MetadataKeySalt] = salt
	}

	if err := s.repo.Replace(ctx, values, remove...); err != nil {
		s.loaded = false
		return err
	}
	s.remember(Session{Token: token, UserName: userName, ExpiresAt: tokenExpiry(token)}, nil)
	return nil
}

// Load returns the stored session. It fails with common.ErrNotLoggedIn when
// there is none and common.ErrSessionExpired when the token has expired.
func (s *CredentialStore) Load(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		sess, err := s.read(ctx)
		if err != nil && !errors.Is(err, common.ErrNotLoggedIn) {
			return Session{}, err
		}
		s.remember(sess, err)
	}
	if s.loadErr != nil {
		return Session{}, s.loadErr
	}

	sess := s.sess
	if !sess.ExpiresAt.IsZero() && !s.now().Before(sess.ExpiresAt) {
		return sess, common.ErrSessionExpired
	}
	return sess, nil
}

// Token implements httpclient.TokenSource. A missing or expired session
// yields an empty token so the request goes out unauthenticated.
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	switch {
	case err == nil:
		return sess.Token, nil
	case errors.Is(err, common.ErrNotLoggedIn), errors.Is(err, common.ErrSessionExpired):
		return "", nil
	default:
		return "", err
	}
}

// Clear removes everything the store holds.
func (s *CredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.loaded = false
		return err
	}
	s.remember(Session{}, common.ErrNotLoggedIn)
	return nil
}

// remember must be called with s.mu held.
func (s *CredentialStore) remember(sess Session, err error) {
	s.loaded = true
	s.sess = sess
	s.loadErr = err
}

// read loads and unseals the session from the table.
func (s *CredentialStore) read(ctx context.Context) (Session, error) {
	raw, err := s.repo.Get(ctx, common.MetadataKeyToken)
	if err != nil {
		return Session{}, err
	}
	if raw == nil {
		return Session{}, common.ErrNotLoggedIn
	}

	salt, err := s.repo.Get(ctx, common.MetadataKeySalt)
	if err != nil {
		return Session{}, err
	}
	token := raw
	if salt != nil {
		if len(s.passphrase) == 0 {
			return Session{}, fmt.Errorf("%w: stored token is sealed, a store passphrase is required", common.ErrNotLoggedIn)
		}
		key := s.deriveKey(s.passphrase, salt)
		defer common.WipeByteArray(key)
		if token, err = cryptox.Open(raw, key); err != nil {
			return Session{}, fmt.Errorf("%w: cannot unseal stored token: %v", common.ErrNotLoggedIn, err)
		}
	}

	name, err := s.repo.Get(ctx, common.MetadataKeyUserName)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: string(token), UserName: string(name), ExpiresAt: tokenExpiry(string(token))}, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
