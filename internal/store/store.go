// Package store is the GORM-backed persistence layer. Services depend on
// narrow interfaces they declare themselves; *Store satisfies all of them.
package store

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

var Module = fx.Options(
	fx.Provide(New),
)
