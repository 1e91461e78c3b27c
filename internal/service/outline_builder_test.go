package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"course_outline_backend/internal/model"
	"course_outline_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visibleFlags() model.VisibilityFlags {
	return model.VisibilityFlags{UserVisible: true, Visible: true, Available: true}
}

// restrictedShownFlags: listed because the restriction carries an
// explanation, but not user visible, so it can never be opened.
func restrictedShownFlags() model.VisibilityFlags {
	return model.VisibilityFlags{UserVisible: false, Visible: true, Available: false, AvailableInfo: "opens later"}
}

func sectionSnap(id uint, number int, flags model.VisibilityFlags, activityIDs ...uint) model.SectionSnapshot {
	return model.SectionSnapshot{
		ID:          id,
		Number:      number,
		Title:       fmt.Sprintf("Section %d", number),
		Flags:       flags,
		ActivityIDs: activityIDs,
	}
}

func snapWith(last int, hiddenShown bool, sections []model.SectionSnapshot, activities ...model.Activity) *model.CourseSnapshot {
	snap := &model.CourseSnapshot{
		CourseID:            10,
		Title:               "Course",
		HiddenSectionsShown: hiddenShown,
		LastSectionNumber:   last,
		Sections:            sections,
		Activities:          make(map[uint]model.Activity, len(activities)),
	}
	for _, a := range activities {
		snap.Activities[a.ID] = a
	}
	return snap
}

func testBuilder() *OutlineBuilder {
	return NewOutlineBuilder(NewLinkPresenter(""), nil)
}

func uintPtr(v uint) *uint { return &v }

func TestBuildSkipsSectionZeroAndStealth(t *testing.T) {
	snap := snapWith(2, false, []model.SectionSnapshot{
		sectionSnap(1, 0, visibleFlags()),
		sectionSnap(2, 1, visibleFlags()),
		sectionSnap(3, 2, visibleFlags()),
		sectionSnap(4, 3, visibleFlags()), // beyond lastSectionNumber
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, uint(2), views[0].SectionID)
	assert.Equal(t, uint(3), views[1].SectionID)
}

func TestBuildOpensFirstVisibleSection(t *testing.T) {
	// Section 1 is fully hidden; section 2 must both appear and open.
	snap := snapWith(2, false, []model.SectionSnapshot{
		sectionSnap(1, 0, visibleFlags()),
		sectionSnap(2, 1, model.VisibilityFlags{}),
		sectionSnap(3, 2, visibleFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, uint(3), views[0].SectionID)
	assert.True(t, views[0].IsOpen)
}

func TestBuildExplicitOpenRequest(t *testing.T) {
	snap := snapWith(2, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags()),
		sectionSnap(2, 2, visibleFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{
		UserID:        1,
		OpenSectionID: uintPtr(2),
	})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.False(t, views[0].IsOpen)
	assert.True(t, views[1].IsOpen)
}

func TestBuildExplicitOpenOnRestrictedSectionFallsBack(t *testing.T) {
	// The requested section is listed (restriction explained) but not user
	// visible, so the request cannot be honored and the first rendered
	// section opens instead.
	snap := snapWith(2, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags()),
		sectionSnap(2, 2, restrictedShownFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{
		UserID:        1,
		OpenSectionID: uintPtr(2),
	})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.True(t, views[0].IsOpen)
	assert.False(t, views[1].IsOpen)
}

func TestBuildExplicitOpenOnUnknownSectionFallsBack(t *testing.T) {
	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{
		UserID:        1,
		OpenSectionID: uintPtr(99),
	})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.True(t, views[0].IsOpen)
}

func TestBuildAtMostOneOpenSection(t *testing.T) {
	snap := snapWith(4, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags()),
		sectionSnap(2, 2, visibleFlags()),
		sectionSnap(3, 3, visibleFlags()),
		sectionSnap(4, 4, visibleFlags()),
	})

	for _, req := range []model.NavigationRequest{
		{UserID: 1},
		{UserID: 1, OpenSectionID: uintPtr(3)},
		{UserID: 1, OpenSectionID: uintPtr(99)},
	} {
		views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, req)
		require.NoError(t, err)

		open := 0
		for _, v := range views {
			if v.IsOpen {
				open++
			}
		}
		assert.Equal(t, 1, open)
	}
}

func TestBuildDimmedSection(t *testing.T) {
	dimmable := model.VisibilityFlags{UserVisible: false, Visible: true, Available: true}

	snap := snapWith(2, true, []model.SectionSnapshot{
		{ID: 1, Number: 1, Title: "Locked topic", Flags: dimmable, AvailabilityMessage: "Opens in March"},
		sectionSnap(2, 2, visibleFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.True(t, views[0].Dimmed)
	assert.False(t, views[0].IsOpen)
	assert.True(t, views[0].IsEmpty)
	assert.Empty(t, views[0].Activities)
	assert.Equal(t, "Opens in March", views[0].AvailabilityMessage)
	assert.Equal(t, model.SectionCompletionNotApplicable, views[0].CompletionState)

	// A dimmed placeholder does not count as the first rendered section.
	assert.True(t, views[1].IsOpen)
}

func TestBuildDimmedSectionOmittedWhenPolicyOff(t *testing.T) {
	dimmable := model.VisibilityFlags{UserVisible: false, Visible: true, Available: true}

	snap := snapWith(2, false, []model.SectionSnapshot{
		sectionSnap(1, 1, dimmable),
		sectionSnap(2, 2, visibleFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, uint(2), views[0].SectionID)
}

func TestBuildOrderFollowsInput(t *testing.T) {
	snap := snapWith(3, false, []model.SectionSnapshot{
		sectionSnap(7, 1, visibleFlags()),
		sectionSnap(3, 2, visibleFlags()),
		sectionSnap(5, 3, visibleFlags()),
	})

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 3)
	assert.Equal(t, []uint{7, 3, 5}, []uint{views[0].SectionID, views[1].SectionID, views[2].SectionID})
}

func TestBuildSectionCompletion(t *testing.T) {
	done := trackedActivity(1)
	pending := trackedActivity(2)
	viewer := trackedActivity(3)
	viewer.SupportsCompletion = false

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1, 2, 3),
	}, done, pending, viewer)

	records := model.CompletionRecords{
		1: model.CompletionComplete,
		2: model.CompletionIncomplete,
	}

	views, err := testBuilder().Build(context.Background(), snap, records, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, model.SectionCompletionIncomplete, views[0].CompletionState)
	require.Len(t, views[0].Activities, 3)
	assert.Equal(t, model.CompletionClassComplete, views[0].Activities[0].CompletionClass)
	assert.Equal(t, model.CompletionClassIncomplete, views[0].Activities[1].CompletionClass)
	assert.Equal(t, model.CompletionClassNone, views[0].Activities[2].CompletionClass)
	assert.False(t, views[0].IsEmpty)
}

func TestBuildHiddenTrackedActivityExcluded(t *testing.T) {
	hidden := trackedActivity(1)
	hidden.VisibilityFlags = model.VisibilityFlags{UserVisible: false, Visible: true, Available: true}
	done := trackedActivity(2)

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1, 2),
	}, hidden, done)

	records := model.CompletionRecords{2: model.CompletionComplete}

	views, err := testBuilder().Build(context.Background(), snap, records, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 1)
	require.Len(t, views[0].Activities, 1)
	assert.Equal(t, uint(2), views[0].Activities[0].ActivityID)
	// The hidden activity never joins the tally, so the section completes.
	assert.Equal(t, model.SectionCompletionComplete, views[0].CompletionState)
}

func TestBuildNotRepresentableOmittedButCounted(t *testing.T) {
	label := trackedActivity(1)
	label.HasViewableContent = false

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1),
	}, label)

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Empty(t, views[0].Activities)
	assert.True(t, views[0].IsEmpty)
	// Omission from output does not undo the completion bookkeeping.
	assert.Equal(t, model.SectionCompletionIncomplete, views[0].CompletionState)
}

type flakyPresenter struct {
	inner   ActivityPresenter
	failFor map[uint]error
}

func (p *flakyPresenter) Present(activity model.Activity, icon *model.IconOverride) (model.RenderToken, error) {
	if err, ok := p.failFor[activity.ID]; ok {
		return model.RenderToken{}, err
	}
	return p.inner.Present(activity, icon)
}

func TestBuildPresenterFailureIsBestEffort(t *testing.T) {
	first := trackedActivity(1)
	second := trackedActivity(2)

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1, 2),
	}, first, second)

	builder := NewOutlineBuilder(&flakyPresenter{
		inner:   NewLinkPresenter(""),
		failFor: map[uint]error{1: errors.New("renderer exploded")},
	}, nil)

	views, err := builder.Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err, "a single failing activity must not abort the render")

	require.Len(t, views, 1)
	require.Len(t, views[0].Activities, 1)
	assert.Equal(t, uint(2), views[0].Activities[0].ActivityID)
}

func TestBuildDanglingActivityReferenceIsFatal(t *testing.T) {
	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 99),
	})

	_, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrInvalidCourseData)
}

func TestBuildHighlightedActivity(t *testing.T) {
	first := trackedActivity(1)
	second := trackedActivity(2)

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1, 2),
	}, first, second)

	views, err := testBuilder().Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{
		UserID:                1,
		HighlightedActivityID: uintPtr(2),
	})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.False(t, views[0].Activities[0].IsHighlighted)
	assert.True(t, views[0].Activities[1].IsHighlighted)
}

func TestBuildCompletionStylePassThrough(t *testing.T) {
	done := trackedActivity(1)
	pending := trackedActivity(2)

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1, 2),
	}, done, pending)

	builder := testBuilder()
	builder.CompletionStyle = "#d4edda"

	records := model.CompletionRecords{1: model.CompletionComplete}

	views, err := builder.Build(context.Background(), snap, records, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views[0].Activities, 2)
	assert.Equal(t, "#d4edda", views[0].Activities[0].Style)
	assert.Empty(t, views[0].Activities[1].Style)
}

type staticIconResolver struct {
	urls map[string]string
}

func (r *staticIconResolver) OverrideFor(_ context.Context, modType string) *model.IconOverride {
	u, ok := r.urls[modType]
	if !ok {
		return nil
	}
	return &model.IconOverride{ModType: modType, URL: u}
}

func TestBuildIconOverride(t *testing.T) {
	quiz := trackedActivity(1)
	quiz.ModType = "quiz"
	assign := trackedActivity(2)

	snap := snapWith(1, false, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1, 2),
	}, quiz, assign)

	builder := NewOutlineBuilder(NewLinkPresenter(""), &staticIconResolver{
		urls: map[string]string{"quiz": "/assets/mod/quiz/icon.svg"},
	})

	views, err := builder.Build(context.Background(), snap, model.CompletionRecords{}, model.NavigationRequest{UserID: 1})
	require.NoError(t, err)

	require.Len(t, views[0].Activities, 2)
	assert.Equal(t, "/assets/mod/quiz/icon.svg", views[0].Activities[0].RenderToken.IconURL)
	assert.Equal(t, "/theme/icons/assign.svg", views[0].Activities[1].RenderToken.IconURL)
}

func TestBuildIsIdempotent(t *testing.T) {
	done := trackedActivity(1)

	snap := snapWith(2, true, []model.SectionSnapshot{
		sectionSnap(1, 1, visibleFlags(), 1),
		sectionSnap(2, 2, model.VisibilityFlags{UserVisible: false, Visible: true, Available: true}),
	}, done)

	records := model.CompletionRecords{1: model.CompletionComplete}
	req := model.NavigationRequest{UserID: 1, HighlightedActivityID: uintPtr(1)}

	builder := testBuilder()
	first, err := builder.Build(context.Background(), snap, records, req)
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), snap, records, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
