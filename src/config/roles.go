package config

const (
	RoleAdmin = "admin"

	TokenTypeAccess = "access"
)

var allRoles = map[string][]string{
	RoleAdmin: {"manageArchive", "manageDrafts", "manageCollections", "manageCategories"},
}

var RoleRights = allRoles
