package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

// Store failures must surface as hard errors, not silent zero counts; the
// scheduler converts them into failed-run telemetry at its own boundary.
func TestUpsertJobs_StoreFailurePropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO jobs").WillReturnError(errors.New("disk I/O error"))

	st := &Store{Pool: db}
	now := time.Now().UTC()
	n, err := st.UpsertJobs(context.Background(), []domain.JobRecord{{
		Source: "a", ExternalID: "1", Title: "Dev",
		ExternalURL: "https://example.com", CreatedAt: now, FetchedAt: now,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert jobs")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectJobs_StoreFailurePropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM jobs").WillReturnError(errors.New("database is locked"))

	st := &Store{Pool: db}
	_, err = st.SelectJobs(context.Background(), Filters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select jobs")
	assert.NoError(t, mock.ExpectationsWereMet())
}
