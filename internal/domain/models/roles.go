// internal/domain/models/roles.go
package models

// Organization roles as issued by the identity provider, plus the global
// super-admin claim value.
const (
	RoleOrgAdmin   = "org:admin"
	RoleOrgMember  = "org:member"
	RoleSuperAdmin = "super_admin"
)
