package model

// UserRole mirrors the role claim of upstream-issued tokens. This service
// performs no registration or login; it only reads claims.
type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)
