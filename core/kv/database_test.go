package kv

import (
	"context"
	"encoding/json"
	"testing"

	"feedmark/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestDatabase(t *testing.T) {
	db := setupSQLite(t)
	store := NewDatabase(db)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Verify())

	exerciseStore(t, store)
}

func TestOpen_Database(t *testing.T) {
	db := setupSQLite(t)

	store, err := Open(context.Background(), Config{Driver: DriverDatabase}, db, nil, "")
	assert.NoError(t, err)
	assert.IsType(t, &Database{}, store)
}

func TestDatabase_VerifyMissingTable(t *testing.T) {
	store := NewDatabase(setupSQLite(t))
	assert.Error(t, store.Verify())
}

func TestDatabase_GetMissingReturnsDefault(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewDatabase(db)

	mock.ExpectQuery("SELECT \\* FROM `feedmark_entries` WHERE namespace = \\? AND entry_key = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"namespace", "entry_key", "value", "updated_at"}))

	got, err := store.Get(context.Background(), "tagged", "art", json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Equal(t, `null`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_KeysQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewDatabase(db)

	mock.ExpectQuery("SELECT `entry_key` FROM `feedmark_entries` WHERE namespace = \\?").
		WillReturnError(assert.AnError)

	_, err := store.Keys(context.Background(), "tagged")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
