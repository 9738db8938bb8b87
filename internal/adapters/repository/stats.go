package repository

import (
	"context"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/metrics"
)

// DailyStat returns a user's stat for day, creating an empty one if missing.
func (s *Store) DailyStat(ctx context.Context, userID uint, day time.Time) (d model.DailyStat, err error) {
	defer func(start time.Time) { err = s.observe("daily_stat", start, err) }(time.Now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadDailyStat(tx, userID, day)
		if err != nil {
			return err
		}
		d = row.toModel()
		return nil
	})
	return d, err
}

// UpdateDailyStat applies fn to a user's stat for day inside one transaction
// and persists the result when fn reports a change.
func (s *Store) UpdateDailyStat(ctx context.Context, userID uint, day time.Time, fn func(model.DailyStat) (model.DailyStat, bool)) (d model.DailyStat, err error) {
	defer func(start time.Time) { err = s.observe("update_daily_stat", start, err) }(time.Now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadDailyStat(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, day)
		if err != nil {
			return err
		}
		before := row.toModel()
		after, changed := fn(before)
		if !changed {
			d = before
			return nil
		}
		if err := saveDailyStat(tx, row, before, after); err != nil {
			return err
		}
		metrics.RecordStatUpdate("sourcing")
		d = after
		d.ID = row.ID
		return nil
	})
	return d, err
}

func loadDailyStat(tx *gorm.DB, userID uint, day time.Time) (dailyStatRow, error) {
	row := dailyStatRow{UserID: userID, Date: model.Day(day)}
	err := tx.Preload("Stats").Preload("Candidates").
		Where(dailyStatRow{UserID: row.UserID, Date: row.Date}).
		FirstOrCreate(&row).Error
	return row, err
}

// saveDailyStat writes the difference between before and after.
func saveDailyStat(tx *gorm.DB, row dailyStatRow, before, after model.DailyStat) error {
	if err := tx.Model(&dailyStatRow{}).Where("id = ?", row.ID).
		Update("total_sourced", after.TotalSourced).Error; err != nil {
		return err
	}
	for _, url := range after.URLs {
		if slices.Contains(before.URLs, url) {
			continue
		}
		if err := tx.Create(&sourcedCandidateRow{DailyStatID: row.ID, CandidateURL: url}).Error; err != nil {
			return err
		}
	}
	for _, j := range after.Jobs {
		i := slices.IndexFunc(row.Stats, func(r sourcedStatRow) bool { return r.Job == j.Job })
		if i < 0 {
			stat := sourcedStatRow{DailyStatID: row.ID, Job: j.Job, Relevant: j.Relevant, Unrelevant: j.Unrelevant}
			if err := tx.Create(&stat).Error; err != nil {
				return err
			}
			continue
		}
		prev := row.Stats[i]
		if prev.Relevant == j.Relevant && prev.Unrelevant == j.Unrelevant {
			continue
		}
		err := tx.Model(&sourcedStatRow{}).Where("id = ?", prev.ID).
			Updates(map[string]any{"relevant": j.Relevant, "unrelevant": j.Unrelevant}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// IncreaseReviewed counts url once per reviewer and day. It reports whether
// the count moved.
func (s *Store) IncreaseReviewed(ctx context.Context, userID uint, day time.Time, url string) (counted bool, err error) {
	defer func(start time.Time) { err = s.observe("increase_reviewed", start, err) }(time.Now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := dailyQAStatRow{UserID: userID, Date: model.Day(day)}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Candidates").
			Where(dailyQAStatRow{UserID: row.UserID, Date: row.Date}).
			FirstOrCreate(&row).Error
		if err != nil {
			return err
		}
		if slices.ContainsFunc(row.Candidates, func(c reviewedCandidateRow) bool { return c.CandidateURL == url }) {
			return nil
		}
		if err := tx.Model(&dailyQAStatRow{}).Where("id = ?", row.ID).
			Update("total_reviewed", gorm.Expr("total_reviewed + ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Create(&reviewedCandidateRow{DailyQAStatID: row.ID, CandidateURL: url}).Error; err != nil {
			return err
		}
		counted = true
		return nil
	})
	if err == nil && counted {
		metrics.RecordStatUpdate("qa")
	}
	return counted, err
}
