package people

const (
	ResourceUsers  = "users"
	ResourceAdmins = "admins"
)

var (
	userFields  = []string{"fullname", "email", "role", "password"}
	adminFields = []string{"name", "email", "role", "password"}
)
