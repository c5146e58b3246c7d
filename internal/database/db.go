package database

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"spond-whatsapp-bridge/internal/config"
)

// PersonMapping links a WhatsApp phone number (E.164, with leading "+") to a
// Spond person id. Numbers are stored exactly as given; normalization is the
// caller's job so the policy lives in one place.
type PersonMapping struct {
	PhoneE164 string `gorm:"primaryKey;column:phone_e164" json:"phone_e164"`
	PersonID  string `gorm:"not null;index;column:person_id" json:"person_id"`
}

func (PersonMapping) TableName() string {
	return "person_map"
}

// Store wraps the database handle for the identity mapping table.
type Store struct {
	db *gorm.DB
}

// InitDB opens the database selected by the config (postgres when
// DATABASE_URL is set, local sqlite otherwise) and runs migrations.
func InitDB(cfg *config.Config) (*Store, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&PersonMapping{}); err != nil {
		return nil, fmt.Errorf("migrate person_map: %w", err)
	}

	return &Store{db: db}, nil
}

// UpsertPerson creates or overwrites the mapping for a phone number.
// Last write wins on conflict; a person may end up mapped from several
// numbers over time and stale rows are simply overwritten.
func (s *Store) UpsertPerson(phoneE164, personID string) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_e164"}},
		DoUpdates: clause.AssignmentColumns([]string{"person_id"}),
	}).Create(&PersonMapping{PhoneE164: phoneE164, PersonID: personID}).Error
}

// PersonID returns the Spond person id mapped to a phone number, or "" when
// no mapping exists. A miss is not an error; only storage failures are.
func (s *Store) PersonID(phoneE164 string) (string, error) {
	var m PersonMapping
	err := s.db.Where("phone_e164 = ?", phoneE164).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.PersonID, nil
}
