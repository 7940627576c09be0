package database

import (
	"context"
	"fmt"

	"loyalty_club_backend/internal/config"
	"loyalty_club_backend/internal/repositories"
	"loyalty_club_backend/pkg/utils"
)

// InitRecordStore opens the durable store selected by STORAGE_DRIVER.
func InitRecordStore(ctx context.Context, cfg *config.Config) (repositories.RecordStore, error) {
	var (
		store repositories.RecordStore
		err   error
	)

	switch cfg.Storage.Driver {
	case config.StorageFile:
		store, err = repositories.NewFileRecordStore(cfg.Storage.Dir)
	case config.StorageSQLite:
		db, openErr := Open(DriverSQLite, cfg.Storage.SQLitePath)
		if openErr != nil {
			return nil, openErr
		}
		store = repositories.NewSQLRecordStore(db)
	case config.StoragePostgres:
		dsn := PostgresDSN(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode)
		db, openErr := Open(DriverPostgres, dsn)
		if openErr != nil {
			return nil, openErr
		}
		store = repositories.NewSQLRecordStore(db)
	case config.StorageRedis:
		store, err = repositories.NewRedisRecordStore(ctx, repositories.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.StorageS3:
		store, err = repositories.NewS3RecordStore(ctx, repositories.S3Options{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
		})
	case config.StorageMemory:
		store = repositories.NewMemoryRecordStore()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s storage: %w", cfg.Storage.Driver, err)
	}

	utils.LogInfo("Storage initialized", map[string]interface{}{"driver": cfg.Storage.Driver, "key": cfg.Storage.Key})
	return store, nil
}
