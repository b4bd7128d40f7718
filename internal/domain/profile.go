package domain

// Role is the profile-level role of a team member
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleRealtor   Role = "realtor"
	RoleSecretary Role = "secretary"
)

// Roles lists every role a profile may hold
var Roles = []Role{RoleAdmin, RoleManager, RoleRealtor, RoleSecretary}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the principal verified by the identity service for one request.
// Roles carries the identity-level role metadata, which is independent of Profile.Role.
type Identity struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the identity-level metadata lists role
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile is the per-identity record that carries the agency role.
// TenantID is nil until the identity is assigned to an agency.
type Profile struct {
	ID        string  `json:"id"`
	TenantID  *string `json:"tenant_id"`
	Role      Role    `json:"role"`
	FullName  *string `json:"full_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Tenant returns the profile's tenant and whether it has one
func (p *Profile) Tenant() (string, bool) {
	if p == nil || p.TenantID == nil || *p.TenantID == "" {
		return "", false
	}
	return *p.TenantID, true
}

// ProfileSummary is the team-page projection of a profile
type ProfileSummary struct {
	ID        string  `json:"id"`
	FullName  *string `json:"full_name"`
	Username  *string `json:"username"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfilePatch is the body of a profile update; nil fields are left untouched
type ProfilePatch struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=40"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// Empty reports whether the patch changes nothing
func (p *ProfilePatch) Empty() bool {
	return p == nil || (p.FullName == nil && p.Username == nil && p.AvatarURL == nil)
}

// Principal is everything the authenticator attaches to a request
type Principal struct {
	Client   ScopedClient
	Identity *Identity
	Profile  *Profile
}
