package repository

import (
	"context"

	"course_outline_backend/internal/model"

	"gorm.io/gorm"
)

// CompletionRepository reads per-user completion records. It is read-only;
// records are written by the activity services upstream.
type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

// RecordsFor returns the user's completion states for every activity of a
// course, keyed by activity id. Activities without a record are simply
// absent from the map.
func (r *CompletionRepository) RecordsFor(ctx context.Context, courseID, userID uint) (model.CompletionRecords, error) {
	var rows []model.ActivityCompletion
	err := r.DB.WithContext(ctx).
		Joins("JOIN activities ON activities.id = activity_completions.activity_id").
		Where("activities.course_id = ? AND activity_completions.user_id = ?", courseID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make(model.CompletionRecords, len(rows))
	for _, row := range rows {
		records[row.ActivityID] = row.State
	}
	return records, nil
}
