// Command seed populates a demo course for local development: a course-level
// section, visible and restricted sections, a stealth section past the
// numbering boundary, and completion rows for user 1.
package main

import (
	"log"

	"course_outline_backend/internal/config"
	"course_outline_backend/internal/model"
	"course_outline_backend/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	course := model.Course{
		Title:               "Introduction to C Programming",
		HiddenSectionsShown: true,
		LastSectionNumber:   3,
	}
	if err := db.Create(&course).Error; err != nil {
		log.Fatalf("Failed to create course: %v", err)
	}

	visible := model.VisibilityFlags{UserVisible: true, Visible: true, Available: true}

	sections := []model.CourseSection{
		{CourseID: course.ID, Number: 0, Title: "General", VisibilityFlags: visible},
		{CourseID: course.ID, Number: 1, Title: "Getting Started", VisibilityFlags: visible},
		{CourseID: course.ID, Number: 2, Title: "Pointers", VisibilityFlags: model.VisibilityFlags{
			Visible: true, Available: true,
		}, AvailabilityMessage: "Opens after you finish Getting Started"},
		{
			CourseID: course.ID, Number: 3, Title: "Memory Management",
			VisibilityFlags:     model.VisibilityFlags{Visible: true, AvailableInfo: "Complete the Pointers quiz first"},
			AvailabilityMessage: "Complete the Pointers quiz first",
		},
		// Stealth section beyond lastSectionNumber; never rendered.
		{CourseID: course.ID, Number: 4, Title: "Orphaned", VisibilityFlags: visible},
	}
	if err := db.Create(&sections).Error; err != nil {
		log.Fatalf("Failed to create sections: %v", err)
	}

	activities := []model.Activity{
		{CourseID: course.ID, SectionID: sections[1].ID, Position: 1, Name: "Course syllabus", ModType: "resource", VisibilityFlags: visible, HasViewableContent: true},
		{CourseID: course.ID, SectionID: sections[1].ID, Position: 2, Name: "Hello world assignment", ModType: "assign", VisibilityFlags: visible, SupportsCompletion: true, HasViewableContent: true},
		{CourseID: course.ID, SectionID: sections[1].ID, Position: 3, Name: "Week 1 notes", ModType: "label", VisibilityFlags: visible, HasViewableContent: false},
		{CourseID: course.ID, SectionID: sections[2].ID, Position: 1, Name: "Pointers quiz", ModType: "quiz", VisibilityFlags: visible, SupportsCompletion: true, HasViewableContent: true},
	}
	if err := db.Create(&activities).Error; err != nil {
		log.Fatalf("Failed to create activities: %v", err)
	}

	completions := []model.ActivityCompletion{
		{ActivityID: activities[1].ID, UserID: 1, State: model.CompletionComplete},
		{ActivityID: activities[3].ID, UserID: 1, State: model.CompletionIncomplete},
	}
	if err := db.Create(&completions).Error; err != nil {
		log.Fatalf("Failed to create completions: %v", err)
	}

	log.Printf("Seeded course %d with %d sections and %d activities", course.ID, len(sections), len(activities))
}
