package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is the database row shape for one audit entry. Slice fields are
// stored as serialized JSON so the schema stays portable across drivers.
type Record struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
	Action         string    `json:"action"`
	UserRole       string    `gorm:"index" json:"user_role"`
	DataAccessed   string    `json:"data_accessed"`
	SecurityEvents string    `json:"security_events"`
	SessionID      string    `json:"session_id"`
}

// TableName overrides the GORM default.
func (Record) TableName() string {
	return "audit_entries"
}

// Store persists audit entries to a SQL database. It implements Sink.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the audit schema on the given database handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenStore opens (or creates) a SQLite database at path and migrates the
// audit schema.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	return NewStore(db)
}

// Write persists one entry.
func (s *Store) Write(entry Entry) error {
	accessed, err := json.Marshal(entry.DataAccessed)
	if err != nil {
		return err
	}
	events, err := json.Marshal(entry.SecurityEvents)
	if err != nil {
		return err
	}

	record := Record{
		ID:             entry.ID,
		Timestamp:      entry.Timestamp,
		Action:         entry.Action,
		UserRole:       entry.UserRole,
		DataAccessed:   string(accessed),
		SecurityEvents: string(events),
		SessionID:      entry.SessionID,
	}
	return s.db.Create(&record).Error
}

// Count returns the number of persisted entries.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.Model(&Record{}).Count(&count).Error
	return count, err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	var records []Record
	err := s.db.Order("timestamp DESC").Limit(limit).Find(&records).Error
	return records, err
}

// ByRole returns all persisted entries for one role, newest first.
func (s *Store) ByRole(role string) ([]Record, error) {
	var records []Record
	err := s.db.Where("user_role = ?", role).Order("timestamp DESC").Find(&records).Error
	return records, err
}
