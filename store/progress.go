package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/kosyncd/errors"
)

const (
	progressUpsertQuery = `
		INSERT INTO progress (username, document, percentage, progress, device, device_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username, document) DO UPDATE SET
			percentage = excluded.percentage,
			progress   = excluded.progress,
			device     = excluded.device,
			device_id  = excluded.device_id,
			timestamp  = excluded.timestamp`

	progressSelectQuery = `
		SELECT percentage, progress, device, device_id, timestamp
		FROM progress WHERE username = ? AND document = ?`
)

// Record is the stored reading state for one (user, document) pair.
// Nil pointer fields were absent in the push and stay absent on pull.
type Record struct {
	Percentage *float64
	Progress   *string
	Device     *string
	DeviceID   *string
	Timestamp  int64
}

// Progress stores the most recently pushed record per (username, document).
// Every put replaces the row wholesale; the last completed write wins.
type Progress struct {
	db     *sql.DB
	logger *zap.SugaredLogger

	// now supplies the server-assigned timestamp; overridable in tests
	now func() int64
}

// NewProgress creates a progress store over an open database
func NewProgress(db *sql.DB, logger *zap.SugaredLogger) *Progress {
	return &Progress{
		db:     db,
		logger: logger,
		now:    func() int64 { return time.Now().Unix() },
	}
}

// Put replaces the record stored under (username, document) and returns the
// assigned timestamp. The timestamp is server time at the moment of the
// call; any client-supplied value in rec is ignored. The single-statement
// upsert keeps concurrent pushes to the same key from interleaving into a
// mixed record.
func (s *Progress) Put(ctx context.Context, username, document string, rec Record) (int64, error) {
	ts := s.now()
	_, err := s.db.ExecContext(ctx, progressUpsertQuery,
		username, document,
		rec.Percentage, rec.Progress, rec.Device, rec.DeviceID, ts,
	)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to write progress for %s/%s", username, document)
	}

	s.logger.Debugw("Stored progress",
		"username", username,
		"document", document,
		"timestamp", ts,
	)
	return ts, nil
}

// Get returns the stored record for (username, document), or ErrNotFound if
// nothing has been pushed yet. ErrNotFound is a normal outcome, distinct
// from a storage failure.
func (s *Progress) Get(ctx context.Context, username, document string) (*Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, progressSelectQuery, username, document).Scan(
		&rec.Percentage, &rec.Progress, &rec.Device, &rec.DeviceID, &rec.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "no progress for %s/%s", username, document)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read progress for %s/%s", username, document)
	}
	return &rec, nil
}
