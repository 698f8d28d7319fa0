package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBlacklistRepository_AddIgnoresDuplicates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)
	ctx := context.Background()

	insert := regexp.QuoteMeta(`INSERT INTO "blacklisted_tokens" ("token","blacklisted_on") VALUES ($1,$2) ON CONFLICT ("token") DO NOTHING`)

	mock.ExpectBegin()
	mock.ExpectExec(insert).WithArgs("tok-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// second revoke hits the conflict and inserts nothing
	mock.ExpectBegin()
	mock.ExpectExec(insert).WithArgs("tok-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(ctx, "tok-1", testNow))
	require.NoError(t, repo.Add(ctx, "tok-1", testNow.Add(time.Minute)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlacklistRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT count(*) FROM "blacklisted_tokens" WHERE token = $1`)
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	revoked, err := repo.Exists(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.Exists(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlacklistRepository_DeleteForExpiredTokens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "blacklisted_tokens" WHERE token IN \(SELECT "?token"? FROM "tokens" WHERE expires_at <= \$1\)`).
		WithArgs(testNow).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.DeleteForExpiredTokens(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_ListActiveByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)

	rows := sqlmock.NewRows([]string{"id", "token", "user_id", "created_at", "expires_at"}).
		AddRow(1, "tok-1", 7, testNow.Add(-time.Minute), testNow.Add(29*time.Minute)).
		AddRow(2, "tok-2", 7, testNow, testNow.Add(30*time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tokens" WHERE user_id = $1 AND expires_at > $2 ORDER BY id`)).
		WithArgs(7, testNow).
		WillReturnRows(rows)

	tokens, err := repo.ListActiveByUser(context.Background(), 7, testNow)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "tok-1", tokens[0].Token)
	assert.Equal(t, uint(7), tokens[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tokens" WHERE expires_at <= $1`)).
		WithArgs(testNow).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.DeleteExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
