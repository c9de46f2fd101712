package attendance

import (
	"context"
	"testing"
	"time"

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

func TestRepository_WithTx_UpsertRunsOnTransaction(t *testing.T) {
	gormDB, poolMock := newGormOverMock(t)
	repo := NewRepository(gormDB)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	recordID := uuid.New()
	now := time.Now()
	txMock.ExpectBegin()
	txMock.ExpectQuery("INSERT INTO attendance_records").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow(recordID.String(), 2, now, now))

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	record := &AttendanceRecord{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		SessionID:      uuid.New(),
		Status:         StatusPresent,
		Timestamp:      now,
	}
	assert.NoError(t, repo.WithTx(tx).Upsert(context.Background(), record))
	assert.Equal(t, recordID, record.ID)
	assert.Equal(t, 2, record.Version)

	// the upsert must land on the transaction, not the pool
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithTx_NilTxKeepsPool(t *testing.T) {
	gormDB, _ := newGormOverMock(t)
	repo := NewRepository(gormDB)

	assert.Same(t, repo, repo.WithTx(nil))
}
