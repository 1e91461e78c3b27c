package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course_outline_backend/internal/model"
	"course_outline_backend/internal/util"
	"course_outline_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseRepository assembles the immutable course snapshot a render pass
// works on. Course structure changes rarely, so snapshots are cached in
// Redis; completion data is never part of the snapshot.
type CourseRepository struct {
	DB       *gorm.DB
	RDB      *redis.Client
	CacheTTL time.Duration
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *CourseRepository {
	return &CourseRepository{DB: db, RDB: rdb, CacheTTL: cacheTTL}
}

func (r *CourseRepository) Snapshot(ctx context.Context, courseID uint) (*model.CourseSnapshot, error) {
	if snap := r.fromCache(ctx, courseID); snap != nil {
		return snap, nil
	}

	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		Preload("Sections.Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	snap := buildSnapshot(&course)
	r.toCache(ctx, snap)
	return snap, nil
}

func buildSnapshot(course *model.Course) *model.CourseSnapshot {
	snap := &model.CourseSnapshot{
		CourseID:            course.ID,
		Title:               course.Title,
		HiddenSectionsShown: course.HiddenSectionsShown,
		LastSectionNumber:   course.LastSectionNumber,
		Sections:            make([]model.SectionSnapshot, 0, len(course.Sections)),
		Activities:          make(map[uint]model.Activity),
	}

	for _, section := range course.Sections {
		sec := model.SectionSnapshot{
			ID:                  section.ID,
			Number:              section.Number,
			Title:               section.Title,
			Flags:               section.VisibilityFlags,
			AvailabilityMessage: section.AvailabilityMessage,
			ActivityIDs:         make([]uint, 0, len(section.Activities)),
		}
		for _, activity := range section.Activities {
			sec.ActivityIDs = append(sec.ActivityIDs, activity.ID)
			snap.Activities[activity.ID] = activity
		}
		snap.Sections = append(snap.Sections, sec)
	}

	return snap
}

func (r *CourseRepository) cacheKey(courseID uint) string {
	return fmt.Sprintf("%s%d", util.CourseSnapshotCachePrefix, courseID)
}

func (r *CourseRepository) fromCache(ctx context.Context, courseID uint) *model.CourseSnapshot {
	if r.RDB == nil || r.CacheTTL <= 0 {
		return nil
	}
	raw, err := r.RDB.Get(ctx, r.cacheKey(courseID)).Bytes()
	if err != nil {
		return nil
	}
	var snap model.CourseSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Log.Warn("dropping corrupt snapshot cache entry", zap.Uint("courseId", courseID), zap.Error(err))
		r.RDB.Del(ctx, r.cacheKey(courseID))
		return nil
	}
	return &snap
}

func (r *CourseRepository) toCache(ctx context.Context, snap *model.CourseSnapshot) {
	if r.RDB == nil || r.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := r.RDB.Set(ctx, r.cacheKey(snap.CourseID), raw, r.CacheTTL).Err(); err != nil {
		logger.Log.Debug("snapshot cache write failed", zap.Uint("courseId", snap.CourseID), zap.Error(err))
	}
}

// InvalidateSnapshot drops the cached snapshot after course structure edits.
func (r *CourseRepository) InvalidateSnapshot(ctx context.Context, courseID uint) {
	if r.RDB == nil {
		return
	}
	r.RDB.Del(ctx, r.cacheKey(courseID))
}
