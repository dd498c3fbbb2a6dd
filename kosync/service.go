// Package kosync implements the sync service semantics of the KOReader
// kosync protocol: user registration, shared-secret authentication, and
// last-write-wins push/pull of reading progress. It is stateless across
// requests; all state lives in the credential and progress stores.
package kosync

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/kosyncd/errors"
	"github.com/teranos/kosyncd/store"
)

// Service orchestrates the two stores and enforces the per-request protocol
// rules. One instance serves all requests concurrently.
type Service struct {
	creds                *store.Credentials
	progress             *store.Progress
	registrationDisabled bool
	logger               *zap.SugaredLogger
}

// New creates a sync service. registrationDisabled turns every Register call
// into ErrRegistrationDisabled regardless of input.
func New(creds *store.Credentials, progress *store.Progress, registrationDisabled bool, logger *zap.SugaredLogger) *Service {
	return &Service{
		creds:                creds,
		progress:             progress,
		registrationDisabled: registrationDisabled,
		logger:               logger,
	}
}

// RegistrationDisabled reports the registration policy
func (s *Service) RegistrationDisabled() bool {
	return s.registrationDisabled
}

// Register creates a credential for username with the supplied password
// digest and returns the username. The policy check runs before any
// validation, matching koreader-sync-server.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if s.registrationDisabled {
		s.logger.Debugw("Registration disabled, ignoring request")
		return "", errors.ErrRegistrationDisabled
	}
	if username == "" || password == "" {
		return "", errors.NewInvalidRequestError("username and password are required")
	}

	if err := s.creds.Register(ctx, username, password); err != nil {
		return "", err
	}
	return username, nil
}

// Authenticate validates the x-auth-user / x-auth-key pair and returns the
// username. Every failure mode (missing username, missing key, unknown
// user, wrong key) collapses into ErrUnauthorized; callers learn nothing
// about which check failed.
func (s *Service) Authenticate(ctx context.Context, username, key string) (string, error) {
	if username == "" {
		s.logger.Debugw("No auth user in request, cannot authenticate")
		return "", errors.ErrUnauthorized
	}
	if key == "" {
		s.logger.Debugw("No auth key in request, cannot authenticate")
		return "", errors.ErrUnauthorized
	}

	ok, err := s.creds.Verify(ctx, username, key)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Debugw("Provided authentication is invalid", "username", username)
		return "", errors.ErrUnauthorized
	}
	return username, nil
}

// Push stores the pushed state under (user, document) and returns the echoed
// fingerprint with the server-assigned timestamp.
func (s *Service) Push(ctx context.Context, user string, req PushRequest) (string, int64, error) {
	if req.Document == "" {
		return "", 0, errors.Wrap(errors.ErrMissingField, "field 'document' not provided")
	}

	rec := store.Record{
		Percentage: coercePercentage(req.Percentage),
		Progress:   req.Progress,
		Device:     req.Device,
		DeviceID:   req.DeviceID,
	}

	ts, err := s.progress.Put(ctx, user, req.Document, rec)
	if err != nil {
		return "", 0, err
	}
	return req.Document, ts, nil
}

// Pull returns the last-pushed state for (user, document). A document with
// no recorded progress yields a State carrying only the fingerprint; that
// is a normal outcome, not an error.
func (s *Service) Pull(ctx context.Context, user, document string) (*State, error) {
	rec, err := s.progress.Get(ctx, user, document)
	if errors.IsNotFound(err) {
		s.logger.Debugw("No recorded progress for document",
			"username", user,
			"document", document,
		)
		return &State{Document: document}, nil
	}
	if err != nil {
		return nil, err
	}

	ts := rec.Timestamp
	return &State{
		Document:   document,
		Percentage: rec.Percentage,
		Progress:   rec.Progress,
		Device:     rec.Device,
		DeviceID:   rec.DeviceID,
		Timestamp:  &ts,
	}, nil
}
