package roles

// Role is a user's permission level.
type Role string

const (
	User             Role = "user"
	BaseCommander    Role = "base_commander"
	LogisticsOfficer Role = "logistics_officer"
	Admin            Role = "admin"
)

type HierarchyLevel int

const (
	UserLevel             HierarchyLevel = 1
	BaseCommanderLevel    HierarchyLevel = 2
	LogisticsOfficerLevel HierarchyLevel = 3
	AdminLevel            HierarchyLevel = 4
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case User:
		return UserLevel
	case BaseCommander:
		return BaseCommanderLevel
	case LogisticsOfficer:
		return LogisticsOfficerLevel
	case Admin:
		return AdminLevel
	default:
		return UserLevel
	}
}

// HasPermission reports whether the role covers the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, BaseCommander, LogisticsOfficer, Admin:
		return true
	default:
		return false
	}
}
