package store

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/kosyncd/errors"
	kosynctest "github.com/teranos/kosyncd/internal/testing"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestRegisterAndVerify(t *testing.T) {
	db := kosynctest.CreateTestDB(t)
	creds := NewCredentials(db, testLogger())
	ctx := context.Background()

	require.NoError(t, creds.Register(ctx, "aemiller", "3858f62230ac3c915f300c664312c63f"))

	ok, err := creds.Verify(ctx, "aemiller", "3858f62230ac3c915f300c664312c63f")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = creds.Verify(ctx, "aemiller", "deadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnknownUserIndistinguishable(t *testing.T) {
	db := kosynctest.CreateTestDB(t)
	creds := NewCredentials(db, testLogger())
	ctx := context.Background()

	require.NoError(t, creds.Register(ctx, "known", "digest"))

	// Unknown user and wrong key produce identical results
	unknownOK, unknownErr := creds.Verify(ctx, "unknown", "digest")
	wrongOK, wrongErr := creds.Verify(ctx, "known", "wrong")

	assert.Equal(t, unknownOK, wrongOK)
	assert.Equal(t, unknownErr, wrongErr)
	assert.False(t, unknownOK)
}

func TestVerifyCaseSensitive(t *testing.T) {
	db := kosynctest.CreateTestDB(t)
	creds := NewCredentials(db, testLogger())
	ctx := context.Background()

	require.NoError(t, creds.Register(ctx, "user", "AbCdEf"))

	ok, err := creds.Verify(ctx, "user", "abcdef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterDuplicate(t *testing.T) {
	db := kosynctest.CreateTestDB(t)
	creds := NewCredentials(db, testLogger())
	ctx := context.Background()

	require.NoError(t, creds.Register(ctx, "aemiller", "first"))

	// Second registration fails regardless of payload
	err := creds.Register(ctx, "aemiller", "first")
	assert.True(t, errors.Is(err, errors.ErrAlreadyRegistered))

	err = creds.Register(ctx, "aemiller", "different")
	assert.True(t, errors.Is(err, errors.ErrAlreadyRegistered))

	// The original digest is untouched
	ok, err := creds.Verify(ctx, "aemiller", "first")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterRaceExactlyOneWins(t *testing.T) {
	db := kosynctest.CreateTestDB(t)
	creds := NewCredentials(db, testLogger())
	ctx := context.Background()

	const racers = 8
	results := make([]error, racers)
	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start.Wait()
			results[i] = creds.Register(ctx, "contested", "digest")
		}(i)
	}
	start.Done()
	wg.Wait()

	var wins, collisions int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, errors.ErrAlreadyRegistered):
			collisions++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, collisions)
}

func TestExists(t *testing.T) {
	db := kosynctest.CreateTestDB(t)
	creds := NewCredentials(db, testLogger())
	ctx := context.Background()

	exists, err := creds.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, creds.Register(ctx, "somebody", "digest"))

	exists, err = creds.Exists(ctx, "somebody")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("disk I/O error"))

	creds := NewCredentials(db, testLogger())
	err = creds.Register(context.Background(), "user", "digest")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrAlreadyRegistered))
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT key_digest FROM users").WillReturnError(errors.New("disk I/O error"))

	creds := NewCredentials(db, testLogger())
	_, err = creds.Verify(context.Background(), "user", "digest")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
