package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cfs-facility/rapportini-service/internal/model"
)

// DayFlagRepository is the persisted day-lifecycle store: one row per date
// carrying the two orthogonal flags. Rows appear on the first close/send
// action for a date and are never removed implicitly.
type DayFlagRepository struct {
	db *gorm.DB
}

func NewDayFlagRepository(db *gorm.DB) *DayFlagRepository {
	return &DayFlagRepository{db: db}
}

func (r *DayFlagRepository) Flags(ctx context.Context) ([]model.DayFlags, error) {
	var rows []model.DayFlags
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(report_date, 'YYYY-MM-DD') AS date,
			closed,
			sent
		FROM day_flags
		ORDER BY report_date DESC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkClosed flips the one-way closed flag. Repeated calls are no-ops;
// there is no reopen path.
func (r *DayFlagRepository) MarkClosed(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO day_flags (report_date, closed)
		VALUES (?, TRUE)
		ON CONFLICT (report_date) DO UPDATE SET closed = TRUE
	`, date).Error
}

// MarkSent adds the given dates to the sent set as one atomic union: all
// upserts run in a single transaction so a concurrent MarkUnsent never
// observes a half-applied batch.
func (r *DayFlagRepository) MarkSent(ctx context.Context, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, date := range dates {
			if err := tx.Exec(`
				INSERT INTO day_flags (report_date, sent)
				VALUES (?, TRUE)
				ON CONFLICT (report_date) DO UPDATE SET sent = TRUE
			`, date).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkUnsent removes exactly one date from the sent set.
func (r *DayFlagRepository) MarkUnsent(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO day_flags (report_date, sent)
		VALUES (?, FALSE)
		ON CONFLICT (report_date) DO UPDATE SET sent = FALSE
	`, date).Error
}
