package auth

const (
	RoleEmployee   = "EMPLOYEE"
	RoleManager    = "MANAGER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Kind separates the two authentication domains the backend keeps.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

const (
	PermDashboardView      = "dashboard.view"
	PermProfileWrite       = "profile.write"
	PermReviewsRead        = "reviews.read"
	PermReviewsSelf        = "reviews.self"
	PermReviewsManager     = "reviews.manager"
	PermReviewsPeer        = "reviews.peer"
	PermNominationsRead    = "nominations.read"
	PermNominationsRespond = "nominations.respond"
	PermNominationsCreate  = "nominations.create"
	PermSummariesRead      = "summaries.read"
	PermSummariesAck       = "summaries.acknowledge"
	PermDepartmentsRead    = "departments.read"
	PermDepartmentsWrite   = "departments.write"
	PermUsersRead          = "users.read"
	PermUsersWrite         = "users.write"
	PermAdminsRead         = "admins.read"
	PermAdminsWrite        = "admins.write"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermDashboardView,
		PermProfileWrite,
		PermReviewsRead,
		PermReviewsSelf,
		PermNominationsRead,
		PermNominationsRespond,
		PermSummariesRead,
		PermSummariesAck,
		PermDepartmentsRead,
	},
	RoleManager: {
		PermDashboardView,
		PermProfileWrite,
		PermReviewsRead,
		PermReviewsSelf,
		PermReviewsManager,
		PermReviewsPeer,
		PermNominationsRead,
		PermNominationsRespond,
		PermNominationsCreate,
		PermSummariesRead,
		PermSummariesAck,
		PermDepartmentsRead,
		PermUsersRead,
	},
	RoleAdmin: {
		PermDashboardView,
		PermProfileWrite,
		PermReviewsRead,
		PermReviewsManager,
		PermReviewsPeer,
		PermNominationsRead,
		PermNominationsCreate,
		PermSummariesRead,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermUsersRead,
		PermUsersWrite,
		PermAdminsRead,
	},
	RoleSuperAdmin: {
		PermDashboardView,
		PermProfileWrite,
		PermReviewsRead,
		PermReviewsManager,
		PermReviewsPeer,
		PermNominationsRead,
		PermNominationsCreate,
		PermSummariesRead,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermUsersRead,
		PermUsersWrite,
		PermAdminsRead,
		PermAdminsWrite,
	},
}

func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// KindForRole reports which sign-in domain a role belongs to.
func KindForRole(role string) Kind {
	switch role {
	case RoleAdmin, RoleSuperAdmin:
		return KindAdmin
	default:
		return KindUser
	}
}

func UserRoles() []string {
	return []string{RoleEmployee, RoleManager}
}

func AdminRoles() []string {
	return []string{RoleAdmin, RoleSuperAdmin}
}
