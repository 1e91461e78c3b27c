package service

import "course_outline_backend/internal/model"

// CompletionTally accumulates one section's completion bookkeeping while the
// activity loop runs: how many activities are tracked and how many of those
// the user has completed.
type CompletionTally struct {
	Tracked   int
	Completed int
}

// Observe records one tracked activity's state and returns the display class
// for that activity. Complete and CompletePass count toward the section
// tally; CompleteFail, Incomplete and NotTracked do not.
func (t *CompletionTally) Observe(state model.CompletionState) model.CompletionClass {
	t.Tracked++
	switch {
	case state.Completed():
		t.Completed++
		return model.CompletionClassComplete
	case state == model.CompletionCompleteFail:
		return model.CompletionClassFail
	default:
		return model.CompletionClassIncomplete
	}
}

// Verdict is strict all-or-nothing: a single tracked-but-incomplete activity
// marks the whole section incomplete. Sections without any tracked activity
// have no verdict at all.
func (t *CompletionTally) Verdict() model.SectionCompletion {
	switch {
	case t.Tracked == 0:
		return model.SectionCompletionNotApplicable
	case t.Tracked == t.Completed:
		return model.SectionCompletionComplete
	default:
		return model.SectionCompletionIncomplete
	}
}

// AggregateCompletion computes a section's tally without rendering it.
// Tracked activities hidden by an active restriction are excluded from the
// count entirely; the user pays no penalty for items a restriction hides.
func AggregateCompletion(activities []model.Activity, records model.CompletionRecords) CompletionTally {
	var tally CompletionTally
	for _, activity := range activities {
		if !activity.SupportsCompletion {
			continue
		}
		if !ShouldShow(activity.VisibilityFlags) && activity.Available {
			continue
		}
		tally.Observe(records.StateFor(activity.ID))
	}
	return tally
}
