package model

// CourseSnapshot is the immutable view of a course handed to a single render
// pass. Sections keep their course order; Activities resolves the ids the
// sections reference. Nothing in the render path mutates a snapshot.
type CourseSnapshot struct {
	CourseID            uint              `json:"courseId"`
	Title               string            `json:"title"`
	HiddenSectionsShown bool              `json:"hiddenSectionsShown"`
	LastSectionNumber   int               `json:"lastSectionNumber"`
	Sections            []SectionSnapshot `json:"sections"`
	Activities          map[uint]Activity `json:"activities"`
}

type SectionSnapshot struct {
	ID                  uint            `json:"id"`
	Number              int             `json:"number"`
	Title               string          `json:"title"`
	Flags               VisibilityFlags `json:"flags"`
	AvailabilityMessage string          `json:"availabilityMessage,omitempty"`
	ActivityIDs         []uint          `json:"activityIds"`
}

// NavigationRequest carries the per-request parameters of one render pass.
// UserID is explicit; the core never reads an ambient current user.
type NavigationRequest struct {
	OpenSectionID         *uint
	HighlightedActivityID *uint
	UserID                uint
}

// RenderToken is produced by an ActivityPresenter and passed through the
// navigation core untouched.
type RenderToken struct {
	Name    string `json:"name"`
	ViewURL string `json:"viewUrl"`
	IconURL string `json:"iconUrl,omitempty"`
}

// IconOverride asks a presenter to substitute a custom icon for one Present
// call. It is a plain parameter; the shared activity is never touched.
type IconOverride struct {
	ModType string `json:"modType"`
	URL     string `json:"url"`
}

// SectionView is one entry of the rendered course outline.
type SectionView struct {
	SectionID           uint              `json:"sectionId"`
	Title               string            `json:"title"`
	LinkTarget          string            `json:"linkTarget"`
	IsOpen              bool              `json:"isOpen"`
	CompletionState     SectionCompletion `json:"completionState"`
	IsEmpty             bool              `json:"isEmpty"`
	Dimmed              bool              `json:"dimmed,omitempty"`
	AvailabilityMessage string            `json:"availabilityMessage,omitempty"`
	Activities          []ActivityView    `json:"activities"`
}

type ActivityView struct {
	ActivityID      uint            `json:"activityId"`
	RenderToken     RenderToken     `json:"renderToken"`
	CompletionClass CompletionClass `json:"completionClass,omitempty"`
	IsHighlighted   bool            `json:"isHighlighted,omitempty"`
	// Style is an opaque styling hint (configured highlight colour for
	// completed items); the core passes it through without interpretation.
	Style string `json:"style,omitempty"`
}
