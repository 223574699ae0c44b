// Package assets owns the deduplicated picture variants stored per
// (word, language) pair and the policy for choosing which one to show.
package assets

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"

	"picture-word/internal/db"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound signals that no picture is stored for a word. It is a
// valid "generate one" signal, not a failure.
var ErrNotFound = errors.New("no stored picture for word")

// Attribution is the free-form credit a contributor may attach to an
// uploaded picture.
type Attribution struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewStore(conn *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: conn, log: log}
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// FindVariants returns the stored record for a word, with its variants
// in insertion order. A record with zero variants reports ErrNotFound.
func (s *Store) FindVariants(ctx context.Context, word, language string) (*db.WordImage, error) {
	var record db.WordImage
	err := s.db.WithContext(ctx).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("image_variants.created_at ASC")
		}).
		Where("word = ? AND language = ?", normalizeWord(word), language).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(record.Variants) == 0 {
		return nil, ErrNotFound
	}
	return &record, nil
}

// AppendVariant stores one more picture for a word, creating the parent
// record when absent. Concurrent appends for the same key all survive:
// the parent row is created with ON CONFLICT DO NOTHING and refetched,
// and each variant is its own insert, so there is no read-modify-write
// to lose.
func (s *Store) AppendVariant(ctx context.Context, word, language string, payload []byte, contributed bool, attribution *Attribution) (uuid.UUID, error) {
	if len(payload) == 0 {
		return uuid.Nil, errors.New("empty image payload")
	}
	var attrJSON datatypes.JSON
	if attribution != nil {
		raw, err := json.Marshal(attribution)
		if err != nil {
			return uuid.Nil, err
		}
		attrJSON = datatypes.JSON(raw)
	}

	word = normalizeWord(word)
	var variantID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := db.WordImage{Word: word, Language: language}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
			return err
		}
		if record.ID == 0 {
			if err := tx.Where("word = ? AND language = ?", word, language).First(&record).Error; err != nil {
				return err
			}
		}
		variant := db.ImageVariant{
			WordImageID: record.ID,
			Data:        payload,
			Contributed: contributed,
			Attribution: attrJSON,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
		variantID = variant.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Debug().Str("word", word).Str("language", language).
		Bool("contributed", contributed).Stringer("variant_id", variantID).
		Msg("stored image variant")
	return variantID, nil
}

// SelectVariant picks the picture to show for a word. When any variant
// is human-contributed the pick is uniform among contributed variants
// only; otherwise it is uniform among all of them.
func (s *Store) SelectVariant(ctx context.Context, word, language string) (*db.ImageVariant, error) {
	record, err := s.FindVariants(ctx, word, language)
	if err != nil {
		return nil, err
	}
	pool := record.Variants
	contributed := make([]db.ImageVariant, 0, len(pool))
	for _, variant := range pool {
		if variant.Contributed {
			contributed = append(contributed, variant)
		}
	}
	if len(contributed) > 0 {
		pool = contributed
	}
	pick := pool[rand.Intn(len(pool))]
	return &pick, nil
}

// HasExistingPicture reports whether at least one variant is stored for
// the word.
func (s *Store) HasExistingPicture(ctx context.Context, word, language string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&db.ImageVariant{}).
		Joins("JOIN word_images ON word_images.id = image_variants.word_image_id").
		Where("word_images.word = ? AND word_images.language = ?", normalizeWord(word), language).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
