package database

import (
	"context"
	"path/filepath"
	"testing"

	"loyalty_club_backend/internal/config"
	"loyalty_club_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAppliesMigrations(t *testing.T) {
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "nested", "loyalty.db"))
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM storage_records`))
	assert.Equal(t, 0, count)

	// migrations are idempotent
	require.NoError(t, RunMigrations(db, DriverSQLite))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=loyalty sslmode=disable",
		PostgresDSN("db", "5432", "u", "p", "loyalty", "disable"))
}

func TestInitRecordStore(t *testing.T) {
	dir := t.TempDir()
	drivers := map[string]config.StorageConfig{
		config.StorageMemory: {Driver: config.StorageMemory, Key: "clients"},
		config.StorageFile:   {Driver: config.StorageFile, Key: "clients", Dir: filepath.Join(dir, "files")},
		config.StorageSQLite: {Driver: config.StorageSQLite, Key: "clients", SQLitePath: filepath.Join(dir, "loyalty.db")},
	}

	for name, storage := range drivers {
		t.Run(name, func(t *testing.T) {
			store, err := InitRecordStore(context.Background(), &config.Config{Storage: storage})
			require.NoError(t, err)
			defer store.Close()

			repo, err := repositories.NewClientRepository(context.Background(), store, repositories.ClientRepositoryOptions{Key: storage.Key})
			require.NoError(t, err)
			_, err = repo.AddPoints(context.Background(), 1, 10)
			require.NoError(t, err)

			reloaded, err := repositories.NewClientRepository(context.Background(), store, repositories.ClientRepositoryOptions{Key: storage.Key})
			require.NoError(t, err)
			client, err := reloaded.GetClientByID(1)
			require.NoError(t, err)
			assert.Equal(t, 260, client.Points)
		})
	}
}

func TestInitRecordStoreUnknownDriver(t *testing.T) {
	_, err := InitRecordStore(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "tape"}})
	assert.Error(t, err)
}
