package store

import (
	"gorm.io/gorm"
)

// Store runs incident and notification operations against an injected
// database handle. Multi-step operations scope their own transaction so a
// failure never leaves a partial write behind.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
