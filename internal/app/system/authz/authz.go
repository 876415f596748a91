// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
)

// IdentityCtx returns the caller's identity and whether one is signed in.
func IdentityCtx(r *http.Request) (identity.Identity, bool) {
	return auth.CurrentIdentity(r)
}

// IsOrgAdmin reports whether id administers its active organization.
func IsOrgAdmin(id identity.Identity) bool {
	return id.HasOrg() && id.OrgRole == models.RoleOrgAdmin
}

// IsOrgUser reports whether id holds any role in its active organization.
func IsOrgUser(id identity.Identity) bool {
	if !id.HasOrg() {
		return false
	}
	return id.OrgRole == models.RoleOrgAdmin || id.OrgRole == models.RoleOrgMember
}

// CanEditChecklist: checklist edits are org-admin only.
func CanEditChecklist(id identity.Identity) bool { return IsOrgAdmin(id) }

// CanManageFleet: adding or removing drivers and vehicles.
func CanManageFleet(id identity.Identity) bool { return IsOrgAdmin(id) }

// CanSubmitReport: any organization user may file an inspection.
func CanSubmitReport(id identity.Identity) bool { return IsOrgUser(id) }

// CanViewReports: report review and export are org-admin only.
func CanViewReports(id identity.Identity) bool { return IsOrgAdmin(id) }

// CanProvision: creating organizations needs the global claim.
func CanProvision(id identity.Identity) bool { return id.SignedIn() && id.IsSuperAdmin }
