package service

import (
	"context"
	"sync"

	"course_outline_backend/internal/model"
	"course_outline_backend/internal/repository"
	"course_outline_backend/pkg/logger"
	"course_outline_backend/pkg/monitoring"
	"course_outline_backend/pkg/tracing"

	"go.uber.org/zap"
)

// OutlineService loads the per-request snapshot and completion records and
// runs the builder over them. The completion style hint is hot-reloadable,
// hence the lock; everything else is wired once at startup.
type OutlineService struct {
	CourseRepo     *repository.CourseRepository
	CompletionRepo *repository.CompletionRepository
	Presenter      ActivityPresenter
	Icons          IconResolver

	mu              sync.RWMutex
	completionStyle string
}

func NewOutlineService(
	courseRepo *repository.CourseRepository,
	completionRepo *repository.CompletionRepository,
	presenter ActivityPresenter,
	icons IconResolver,
	completionStyle string,
) *OutlineService {
	return &OutlineService{
		CourseRepo:      courseRepo,
		CompletionRepo:  completionRepo,
		Presenter:       presenter,
		Icons:           icons,
		completionStyle: completionStyle,
	}
}

// SetCompletionStyle swaps the styling hint; the config watcher calls this
// when navigation.completion_colour changes.
func (s *OutlineService) SetCompletionStyle(style string) {
	s.mu.Lock()
	s.completionStyle = style
	s.mu.Unlock()
}

func (s *OutlineService) currentStyle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completionStyle
}

// GetOutline renders the course outline for one user and request.
func (s *OutlineService) GetOutline(ctx context.Context, courseID uint, req model.NavigationRequest) ([]model.SectionView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "outline.build")
	defer span.End()

	passID := model.GenerateUUID()

	snap, err := s.CourseRepo.Snapshot(ctx, courseID)
	if err != nil {
		monitoring.OutlineRenderCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	records, err := s.CompletionRepo.RecordsFor(ctx, courseID, req.UserID)
	if err != nil {
		monitoring.OutlineRenderCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	builder := &OutlineBuilder{
		Presenter:       s.Presenter,
		Icons:           s.Icons,
		CompletionStyle: s.currentStyle(),
	}

	views, err := builder.Build(ctx, snap, records, req)
	if err != nil {
		monitoring.OutlineRenderCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.OutlineRenderCounter.WithLabelValues("ok").Inc()
	monitoring.OutlineSectionsRendered.Observe(float64(len(views)))
	logger.Log.Debug("outline rendered",
		zap.String("passId", passID),
		zap.Uint("courseId", courseID),
		zap.Uint("userId", req.UserID),
		zap.Int("sections", len(views)))

	return views, nil
}
