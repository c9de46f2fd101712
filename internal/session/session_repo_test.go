package session

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)
	return db, mock
}

func TestRepository_WithTx_RunsStatementsOnTransaction(t *testing.T) {
	gormDB, poolMock := newGormOverMock(t)
	repo := NewRepository(gormDB)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	sessionID := uuid.New()
	txMock.ExpectBegin()
	txMock.ExpectExec("DELETE FROM attendance_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	bound := repo.WithTx(tx)
	assert.NotSame(t, repo, bound)
	assert.NoError(t, bound.DeleteRecordsBySession(context.Background(), sessionID))

	// the delete must land on the transaction, not the pool
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithTx_NilTxKeepsPool(t *testing.T) {
	gormDB, _ := newGormOverMock(t)
	repo := NewRepository(gormDB)

	assert.Same(t, repo, repo.WithTx(nil))
}
