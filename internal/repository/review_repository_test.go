package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-app/session-api/internal/models"
)

func TestReviewRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(1, 1))

	review := &models.Review{SessionRequestID: "req-1", FromUserID: "u1", ToUserID: "u2", Rating: 5}
	require.NoError(t, repo.Create(context.Background(), review))
	assert.NotEmpty(t, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Review{SessionRequestID: "req-1", FromUserID: "u1", ToUserID: "u2", Rating: 4})
	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryExistsFor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("req-1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsFor(context.Background(), "req-1", "u1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryListBySession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "session_request_id", "from_user_id", "to_user_id", "rating", "comment", "created_at"}).
		AddRow("rev-1", "req-1", "u1", "u2", 5, nil, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs("req-1").
		WillReturnRows(rows)

	reviews, err := repo.ListBySession(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
