package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "title", "body", "session_request_id", "skill_id", "is_read", "created_at"}).
		AddRow("n1", "u1", "session_requested", "t", "b", nil, nil, false, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM notifications").
		WithArgs("u1", 20).
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), "u1", 20)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryUnreadCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkReadWrongOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
		WithArgs("n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), "n1", "intruder")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkAllRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.MarkAllRead(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
