package model

// CompletionState is the per-user completion state of a single activity.
type CompletionState int

const (
	// CompletionNotTracked marks the absence of a completion record; it is
	// never stored, only synthesized when a lookup misses.
	CompletionNotTracked   CompletionState = -1
	CompletionIncomplete   CompletionState = 0
	CompletionComplete     CompletionState = 1
	CompletionCompletePass CompletionState = 2
	CompletionCompleteFail CompletionState = 3
)

// Completed reports whether the state counts toward a section's completed
// tally. CompleteFail satisfies the criteria but not the pass requirement,
// so it does not count.
func (s CompletionState) Completed() bool {
	return s == CompletionComplete || s == CompletionCompletePass
}

// SectionCompletion is the aggregate verdict for one section.
type SectionCompletion int

const (
	SectionCompletionNotApplicable SectionCompletion = -1
	SectionCompletionIncomplete    SectionCompletion = 0
	SectionCompletionComplete      SectionCompletion = 1
)

// CompletionClass is the per-activity display class derived from its
// completion state. Activities without completion tracking get None.
type CompletionClass string

const (
	CompletionClassNone       CompletionClass = ""
	CompletionClassComplete   CompletionClass = "complete"
	CompletionClassFail       CompletionClass = "fail"
	CompletionClassIncomplete CompletionClass = "incomplete"
)

type ActivityCompletion struct {
	BaseModel
	ActivityID uint            `gorm:"uniqueIndex:idx_activity_user;not null" json:"activityId"`
	UserID     uint            `gorm:"uniqueIndex:idx_activity_user;not null" json:"userId"`
	State      CompletionState `gorm:"default:0" json:"state"`
}

func (ActivityCompletion) TableName() string {
	return "activity_completions"
}

// CompletionRecords maps activity id to completion state for one user.
type CompletionRecords map[uint]CompletionState

// StateFor returns the recorded state, or CompletionNotTracked when no record
// exists. A missing record is expected, not an error.
func (r CompletionRecords) StateFor(activityID uint) CompletionState {
	if state, ok := r[activityID]; ok {
		return state
	}
	return CompletionNotTracked
}
