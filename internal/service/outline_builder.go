package service

import (
	"context"
	"errors"
	"fmt"

	"course_outline_backend/internal/model"
	"course_outline_backend/internal/util"
	"course_outline_backend/pkg/logger"

	"go.uber.org/zap"
)

// IconResolver supplies per-activity-type icon overrides to the activity
// loop. A nil override means the presenter uses its default icon.
type IconResolver interface {
	OverrideFor(ctx context.Context, modType string) *model.IconOverride
}

// OutlineBuilder assembles the navigation view of a course for one user:
// which sections appear (shown, dimmed or skipped), which single section is
// open, each section's aggregate completion, and the activity entries inside.
// A builder holds no per-request state; Build is safe to call concurrently.
type OutlineBuilder struct {
	Presenter ActivityPresenter
	Icons     IconResolver
	// CompletionStyle is an opaque styling hint attached to completed
	// activities; the builder passes it through without interpretation.
	CompletionStyle string
}

func NewOutlineBuilder(presenter ActivityPresenter, icons IconResolver) *OutlineBuilder {
	return &OutlineBuilder{Presenter: presenter, Icons: icons}
}

// Build renders the ordered section list for one request. The snapshot is
// read-only: building twice from the same inputs yields identical output.
func (b *OutlineBuilder) Build(ctx context.Context, snap *model.CourseSnapshot, records model.CompletionRecords, req model.NavigationRequest) ([]model.SectionView, error) {
	views := make([]model.SectionView, 0, len(snap.Sections))
	opened := false
	firstRendered := -1 // index into views of the first fully rendered section

	for _, section := range snap.Sections {
		// Section zero and stealth sections beyond the numbering boundary
		// never appear.
		if section.Number == 0 || section.Number > snap.LastSectionNumber {
			continue
		}

		if !ShouldShow(section.Flags) {
			if ShouldDim(section.Flags, snap.HiddenSectionsShown) {
				views = append(views, dimmedSection(snap.CourseID, section))
			}
			continue
		}

		view := model.SectionView{
			SectionID:           section.ID,
			Title:               section.Title,
			LinkTarget:          sectionLink(snap.CourseID, section.Number),
			AvailabilityMessage: section.AvailabilityMessage,
		}

		// First-match-wins: once a section opens, no later section may open
		// even if it matches the request.
		if req.OpenSectionID == nil && firstRendered == -1 {
			view.IsOpen = true
			opened = true
		} else if req.OpenSectionID != nil && *req.OpenSectionID == section.ID && !opened && section.Flags.UserVisible {
			view.IsOpen = true
			opened = true
		}

		tally := &CompletionTally{}
		activities, err := b.buildActivities(ctx, snap, section, records, req, tally)
		if err != nil {
			return nil, err
		}
		view.Activities = activities
		view.CompletionState = tally.Verdict()
		view.IsEmpty = len(activities) == 0

		if firstRendered == -1 {
			firstRendered = len(views)
		}
		views = append(views, view)
	}

	// An explicit open request naming a section the user cannot see must not
	// leave the whole outline collapsed; the first rendered section opens.
	if !opened && firstRendered >= 0 {
		views[firstRendered].IsOpen = true
	}

	return views, nil
}

func (b *OutlineBuilder) buildActivities(ctx context.Context, snap *model.CourseSnapshot, section model.SectionSnapshot, records model.CompletionRecords, req model.NavigationRequest, tally *CompletionTally) ([]model.ActivityView, error) {
	out := []model.ActivityView{}

	for _, id := range section.ActivityIDs {
		activity, ok := snap.Activities[id]
		if !ok {
			return nil, fmt.Errorf("%w: section %d references unknown activity %d", util.ErrInvalidCourseData, section.ID, id)
		}

		class := model.CompletionClassNone
		if activity.SupportsCompletion {
			// A tracked activity hidden by an active restriction drops out
			// of both the list and the tally.
			if !ShouldShow(activity.VisibilityFlags) && activity.Available {
				continue
			}
			class = tally.Observe(records.StateFor(activity.ID))
		}

		token, err := b.Presenter.Present(activity, b.iconOverride(ctx, activity))
		if errors.Is(err, util.ErrNotRepresentable) {
			// Expected for view-less activity types; the tally above stands.
			continue
		}
		if err != nil {
			// Best-effort render: one failed activity never aborts the pass.
			logger.Log.Warn("activity render failed",
				zap.Uint("activityId", activity.ID),
				zap.String("modType", activity.ModType),
				zap.Error(err))
			continue
		}

		view := model.ActivityView{
			ActivityID:      activity.ID,
			RenderToken:     token,
			CompletionClass: class,
		}
		if class == model.CompletionClassComplete {
			view.Style = b.CompletionStyle
		}
		if req.HighlightedActivityID != nil && *req.HighlightedActivityID == activity.ID {
			view.IsHighlighted = true
		}
		out = append(out, view)
	}

	return out, nil
}

func (b *OutlineBuilder) iconOverride(ctx context.Context, activity model.Activity) *model.IconOverride {
	if b.Icons == nil {
		return nil
	}
	return b.Icons.OverrideFor(ctx, activity.ModType)
}

func sectionLink(courseID uint, number int) string {
	return fmt.Sprintf("/course/%d#section-%d", courseID, number)
}

// dimmedSection is the collapsed placeholder for a restricted section: title
// and restriction message only, body collapsed, no activity iteration.
func dimmedSection(courseID uint, section model.SectionSnapshot) model.SectionView {
	msg := section.AvailabilityMessage
	if msg == "" {
		msg = fmt.Sprintf("%s is not available", section.Title)
	}
	return model.SectionView{
		SectionID:           section.ID,
		Title:               section.Title,
		LinkTarget:          sectionLink(courseID, section.Number),
		CompletionState:     model.SectionCompletionNotApplicable,
		IsEmpty:             true,
		Dimmed:              true,
		AvailabilityMessage: msg,
		Activities:          []model.ActivityView{},
	}
}
