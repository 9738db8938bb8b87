package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/okian/sourceqa/internal/domain/model"
)

// UpsertReview stores rv for reviewer. A review of the same candidate on the
// same day is overwritten in place together with both snapshots.
func (s *Store) UpsertReview(ctx context.Context, reviewer model.User, rv model.Review) (out model.Review, err error) {
	defer func(start time.Time) { err = s.observe("upsert_review", start, err) }(time.Now())

	rv.Before.Kind = model.SnapshotOld
	rv.After.Kind = model.SnapshotNew
	key := rv.After.ProfileURLNew

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing reviewRow
		err := tx.Preload("Candidates").
			Where("date = ?", rv.Date).
			Where("id IN (?)", tx.Model(&reviewCandidateRow{}).Select("review_id").Where("li_profile_new = ?", key)).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := reviewRow{
				QAOwnerID:  reviewer.ID,
				Comment:    rv.Comment,
				Score:      rv.Score,
				Date:       rv.Date,
				Candidates: []reviewCandidateRow{snapshotRow(rv.Before), snapshotRow(rv.After)},
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			out = row.toModel(rv.QAOwner)
			return nil
		case err != nil:
			return err
		}

		err = tx.Model(&reviewRow{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"qa_owner_id": reviewer.ID,
			"comment":     rv.Comment,
			"score":       rv.Score,
		}).Error
		if err != nil {
			return err
		}
		for _, snap := range []model.Snapshot{rv.Before, rv.After} {
			row := snapshotRow(snap)
			row.ReviewID = existing.ID
			if err := tx.Where("review_id = ? AND data_type = ?", existing.ID, snap.Kind).
				Assign(row).FirstOrCreate(&reviewCandidateRow{}).Error; err != nil {
				return err
			}
		}
		out = rv
		out.ID = existing.ID
		return nil
	})
	return out, err
}
