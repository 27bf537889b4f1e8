package history

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo_GetExclusionProfile_cacheHit(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()
	repo := NewRepo(nil, redisClient)

	cached := &ExclusionProfile{
		StudentProfileID:  "sp-1",
		IsPregnant:        false,
		Contraindications: []string{"osteoporosis"},
		AvoidList:         []string{"teaser"},
	}
	cachedBytes, err := json.Marshal(cached)
	require.NoError(t, err)

	redisMock.ExpectGet("exclusion-profile::sp-1").SetVal(string(cachedBytes))

	// the db pool is nil on purpose: a cache hit must never reach it
	profile, err := repo.GetExclusionProfile(context.Background(), "sp-1")
	require.NoError(t, err)
	assert.Equal(t, cached, profile)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(_ ...any) error { return r.err }

type fakeDbPool struct {
	rowErr error
}

func (f *fakeDbPool) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return fakeRow{err: f.rowErr}
}

func (f *fakeDbPool) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeDbPool) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func TestRepo_GetExclusionProfile_corruptCacheEntry(t *testing.T) {
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	redisClient, redisMock := redismock.NewClientMock()
	repo := NewRepo(&fakeDbPool{rowErr: pgx.ErrNoRows}, redisClient)

	redisMock.ExpectGet("exclusion-profile::sp-1").SetVal("{corrupt")

	// a corrupt cache entry is logged and the database stays authoritative
	_, err := repo.GetExclusionProfile(context.Background(), "sp-1")
	require.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, redisMock.ExpectationsWereMet())

	require.NotEmpty(t, hook.Entries)
	logged := hook.LastEntry().Message
	assert.Contains(t, logged, "unmarshal cached exclusion profile")
	assert.Contains(t, logged, "invalid character")
}
