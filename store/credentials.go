// Package store persists kosync credentials and progress records in SQLite.
// It knows nothing about the wire protocol: callers hand it opaque usernames,
// key digests, and document fingerprints.
package store

import (
	"context"
	"crypto/subtle"
	"database/sql"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/kosyncd/errors"
)

const (
	credentialInsertQuery = `
		INSERT INTO users (username, key_digest)
		VALUES (?, ?)`

	credentialSelectQuery = `
		SELECT key_digest FROM users WHERE username = ?`

	credentialExistsQuery = `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`
)

// Credentials maps usernames to registered key digests. Rows are created
// once and never mutated or deleted.
type Credentials struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewCredentials creates a credential store over an open database
func NewCredentials(db *sql.DB, logger *zap.SugaredLogger) *Credentials {
	return &Credentials{db: db, logger: logger}
}

// Register inserts a credential for username. The primary key on username
// makes the insert race-safe: of two concurrent registrations exactly one
// wins and the other gets ErrAlreadyRegistered.
func (s *Credentials) Register(ctx context.Context, username, keyDigest string) error {
	_, err := s.db.ExecContext(ctx, credentialInsertQuery, username, keyDigest)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return errors.Wrapf(errors.ErrAlreadyRegistered, "user %s", username)
		}
		return errors.Wrapf(err, "failed to register user %s", username)
	}

	s.logger.Infow("Registered user", "username", username)
	return nil
}

// Verify reports whether a credential exists for username with exactly the
// supplied key digest. An unknown user and a wrong digest are
// indistinguishable to the caller; both return (false, nil).
func (s *Credentials) Verify(ctx context.Context, username, keyDigest string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, credentialSelectQuery, username).Scan(&stored)
	if err == sql.ErrNoRows {
		// Burn a comparison anyway so unknown users cost the same as
		// known users with a bad key
		subtle.ConstantTimeCompare([]byte(keyDigest), []byte(keyDigest))
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to look up credential for %s", username)
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(keyDigest)) == 1, nil
}

// Exists reports whether a credential is registered for username
func (s *Credentials) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, credentialExistsQuery, username).Scan(&exists)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check existence of user %s", username)
	}
	return exists, nil
}
