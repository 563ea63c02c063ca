package models

// UserRole is the role claim carried in access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// ScheduleEditors may generate, edit and apply drafts. Everyone else reads.
var ScheduleEditors = []UserRole{RoleAdmin, RoleSuperAdmin}
