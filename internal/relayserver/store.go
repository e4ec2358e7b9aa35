// Package relayserver implements the push relay server: it stores Web Push
// subscriptions and fans detection payloads out to every subscriber.
package relayserver

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// Subscription is one stored push subscription. Data holds the serialized
// subscription descriptor exactly as received; structural equality of that
// form is the only identity the store knows about. Subscribe appends without
// dedup, unsubscribe removes by exact match.
type Subscription struct {
	ID        uint   `gorm:"primaryKey"`
	Endpoint  string `gorm:"index"`
	Data      string
	CreatedAt int64 `gorm:"autoCreateTime"`
}

// Store persists subscriptions in SQLite.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the subscription database at path.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open subscription database: %w", err)).
			Component("relayserver").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}
	if err := db.AutoMigrate(&Subscription{}); err != nil {
		return nil, errors.New(fmt.Errorf("failed to migrate subscription schema: %w", err)).
			Component("relayserver").
			Category(errors.CategoryDatabase).
			Build()
	}
	return &Store{db: db}, nil
}

// Add appends a subscription. Duplicate descriptors are stored again; the
// store does not deduplicate.
func (s *Store) Add(endpoint, data string) error {
	sub := Subscription{Endpoint: endpoint, Data: data}
	if err := s.db.Create(&sub).Error; err != nil {
		return errors.New(fmt.Errorf("failed to store subscription: %w", err)).
			Component("relayserver").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// RemoveExact deletes every subscription whose serialized form equals data
// and returns the number removed.
func (s *Store) RemoveExact(data string) (int64, error) {
	res := s.db.Where("data = ?", data).Delete(&Subscription{})
	if res.Error != nil {
		return 0, errors.New(fmt.Errorf("failed to remove subscription: %w", res.Error)).
			Component("relayserver").
			Category(errors.CategoryDatabase).
			Build()
	}
	return res.RowsAffected, nil
}

// All returns every stored subscription in insertion order.
func (s *Store) All() ([]Subscription, error) {
	var subs []Subscription
	if err := s.db.Order("id").Find(&subs).Error; err != nil {
		return nil, errors.New(fmt.Errorf("failed to list subscriptions: %w", err)).
			Component("relayserver").
			Category(errors.CategoryDatabase).
			Build()
	}
	return subs, nil
}

// Count returns the number of stored subscriptions.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&Subscription{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
