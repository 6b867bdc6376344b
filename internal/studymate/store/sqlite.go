package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Rayyan1704/StudyMate/internal/model"
)

// datastore implements the Factory interface over a gorm connection.
type datastore struct {
	db *gorm.DB
}

// NewSQLiteFactory opens (or creates) the sqlite database at path and
// migrates the schema. Use ":memory:" for an in-memory database.
func NewSQLiteFactory(path string) (Factory, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}

	// Single connection avoids sqlite write contention; the ingest
	// pipeline serializes writes per session anyway.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sqlite connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ds := &datastore{db: db}
	if err := ds.autoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return ds, nil
}

func (ds *datastore) autoMigrate() error {
	return ds.db.AutoMigrate(
		&model.Session{},
		&model.Document{},
		&model.Chunk{},
	)
}

// Sessions returns the session store.
func (ds *datastore) Sessions() SessionStore {
	return newSessions(ds.db)
}

// Documents returns the document store.
func (ds *datastore) Documents() DocumentStore {
	return newDocuments(ds.db)
}

// Chunks returns the chunk store.
func (ds *datastore) Chunks() ChunkStore {
	return newChunks(ds.db)
}

// Close closes the underlying connection.
func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
