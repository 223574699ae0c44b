package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Round is one game instance. Rounds are append-only: they are never
// deleted, and SolvedAt is set at most once.
type Round struct {
	ID           uint       `gorm:"primaryKey"`
	Solution     string     `gorm:"size:128;not null;index:idx_rounds_solution_created"`
	SolutionHash string     `gorm:"size:64"`
	Language     string     `gorm:"size:32;not null;index"`
	Scramble     string     `gorm:"size:128;not null"`
	Picture      string     `gorm:"type:text"`
	Compliment   string     `gorm:"size:280"`
	Topic        string     `gorm:"size:64"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_rounds_solution_created"`
	SolvedAt     *time.Time `gorm:"index"`
}

// WordImage groups the stored picture variants for one (word, language)
// pair. A word with no variants behaves as not found.
type WordImage struct {
	ID        uint      `gorm:"primaryKey"`
	Word      string    `gorm:"size:128;not null;uniqueIndex:idx_word_images_word_language"`
	Language  string    `gorm:"size:32;not null;uniqueIndex:idx_word_images_word_language"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Variants  []ImageVariant
}

// ImageVariant is a single stored picture. Contributed marks human
// uploads as opposed to generated images.
type ImageVariant struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	WordImageID uint           `gorm:"index;not null"`
	Data        []byte         `gorm:"type:bytea;not null"`
	Contributed bool           `gorm:"not null;default:false"`
	Attribution datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func (v *ImageVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
