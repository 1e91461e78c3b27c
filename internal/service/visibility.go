package service

import "course_outline_backend/internal/model"

// ShouldShow decides whether a section or activity appears in the outline at
// all. A restricted item that carries an explanation is still listed (the
// explanation renders in its place); a silently unavailable item is not.
func ShouldShow(f model.VisibilityFlags) bool {
	return f.UserVisible || (f.Visible && !f.Available && f.AvailableInfo != "")
}

// ShouldDim applies the course policy to sections that fail ShouldShow: when
// the course shows hidden sections, an available-but-hidden section renders
// as a collapsed placeholder instead of disappearing.
func ShouldDim(f model.VisibilityFlags, hiddenSectionsShown bool) bool {
	return !ShouldShow(f) && f.Available && hiddenSectionsShown
}
