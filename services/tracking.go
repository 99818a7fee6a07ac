package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// maxDailySequence is the highest per-day sequence a tracking number can
// carry before the three-digit suffix would wrap.
const maxDailySequence = 999

// TrackingNumbers generates the human-facing order identifiers of the form
// DDMMYY-NNN, where NNN restarts at 001 each calendar day.
type TrackingNumbers struct{}

// NewTrackingNumbers creates a new TrackingNumbers generator
func NewTrackingNumbers() *TrackingNumbers {
	return &TrackingNumbers{}
}

// Next produces the next tracking number for the given day. It must run
// inside the same transaction as the order insert: the read-then-insert is
// guarded by the unique constraint on tracking_number, and the caller
// retries exactly once on a collision.
func (g *TrackingNumbers) Next(tx *gorm.DB, now time.Time) (string, error) {
	prefix := now.Format("020106")

	// Zero-padded suffixes sort lexically, so the highest tracking number
	// for today is the last one in descending order.
	var numbers []string
	err := tx.Model(&models.Order{}).
		Where("tracking_number LIKE ?", prefix+"-%").
		Order("tracking_number DESC").
		Limit(1).
		Pluck("tracking_number", &numbers).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	seq := 1
	if len(numbers) > 0 {
		last := numbers[0]
		parts := strings.SplitN(last, "-", 2)
		if len(parts) == 2 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				seq = n + 1
			}
		}
	}

	if seq > maxDailySequence {
		return "", ErrSequenceExhausted
	}

	return fmt.Sprintf("%s-%03d", prefix, seq), nil
}
