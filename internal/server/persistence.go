package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"picture-word/internal/db"
	"picture-word/internal/generate"

	"gorm.io/gorm"
)

func (s *Server) createRound(ctx context.Context, round *db.Round) error {
	return s.db.WithContext(ctx).Create(round).Error
}

func (s *Server) findRound(ctx context.Context, id uint64) (*db.Round, error) {
	var round db.Round
	if err := s.db.WithContext(ctx).First(&round, id).Error; err != nil {
		return nil, err
	}
	return &round, nil
}

// markRoundSolved sets the solve timestamp exactly once. Re-solving an
// already-solved round matches zero rows and leaves the original
// timestamp in place.
func (s *Server) markRoundSolved(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&db.Round{}).
		Where("id = ? AND solved_at IS NULL", id).
		Update("solved_at", time.Now().UTC()).Error
}

func hashSolution(word string) string {
	sum := sha256.Sum256([]byte(word))
	return hex.EncodeToString(sum[:])
}

// RoundHistory answers the orchestrator's freshness check from the
// rounds table.
type RoundHistory struct {
	db *gorm.DB
}

func NewRoundHistory(conn *gorm.DB) RoundHistory {
	return RoundHistory{db: conn}
}

var _ generate.History = RoundHistory{}

func (h RoundHistory) WordShownSince(ctx context.Context, word string, since time.Time) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).Model(&db.Round{}).
		Where("solution = ? AND created_at >= ?", word, since).
		Count(&count).Error
	return count > 0, err
}
