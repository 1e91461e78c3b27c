package model

// VisibilityFlags is the shared visibility shape of sections and activities.
// AvailableInfo carries the human-readable restriction explanation when a
// restricted item should still be listed; empty means no explanation exists.
type VisibilityFlags struct {
	UserVisible   bool   `gorm:"default:true" json:"userVisible"`
	Visible       bool   `gorm:"default:true" json:"visible"`
	Available     bool   `gorm:"default:true" json:"available"`
	AvailableInfo string `gorm:"type:text" json:"availableInfo,omitempty"`
}

type Course struct {
	BaseModel
	Title string `gorm:"size:255;not null" json:"title"`
	// HiddenSectionsShown selects the course policy for restricted sections:
	// true renders a dimmed placeholder, false omits them entirely.
	HiddenSectionsShown bool            `gorm:"default:false" json:"hiddenSectionsShown"`
	LastSectionNumber   int             `gorm:"default:0" json:"lastSectionNumber"`
	Sections            []CourseSection `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseSection struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Number   int    `gorm:"not null" json:"number"` // 0 = course-level section
	Title    string `gorm:"size:255;not null" json:"title"`
	VisibilityFlags
	// AvailabilityMessage is resolved upstream by the availability service.
	AvailabilityMessage string     `gorm:"type:text" json:"availabilityMessage,omitempty"`
	Activities          []Activity `gorm:"foreignKey:SectionID" json:"activities,omitempty"`
}

func (CourseSection) TableName() string {
	return "course_sections"
}

type Activity struct {
	BaseModel
	CourseID  uint   `gorm:"index;not null" json:"courseId"`
	SectionID uint   `gorm:"index;not null" json:"sectionId"`
	Position  int    `gorm:"default:0" json:"position"`
	Name      string `gorm:"size:255;not null" json:"name"`
	ModType   string `gorm:"size:64;not null" json:"modType"`
	VisibilityFlags
	SupportsCompletion bool `gorm:"default:false" json:"supportsCompletion"`
	// HasViewableContent is resolved once per activity type by the surrounding
	// system; label-style types with no navigable view carry false.
	HasViewableContent bool `gorm:"default:true" json:"hasViewableContent"`
}

func (Activity) TableName() string {
	return "activities"
}
