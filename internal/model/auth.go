package model

import "time"

const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"

	CapManageOptions = "manage_options"
	CapRead          = "read"
)

var roleCapabilities = map[string][]string{
	RoleAdministrator: {CapManageOptions, CapRead},
	RoleEditor:        {CapRead},
}

type AuthRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type AuthConfigResponse struct {
	AllowSignup bool `json:"allowSignup"`
}

type AuthUser struct {
	ID      int64
	LoginID string
	Role    string
}

// Can reports whether the user's role grants capability.
func (u *AuthUser) Can(capability string) bool {
	if u == nil {
		return false
	}
	for _, c := range roleCapabilities[u.Role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities returns the capabilities granted by the user's role.
func (u *AuthUser) Capabilities() []string {
	if u == nil {
		return []string{}
	}
	caps := make([]string, len(roleCapabilities[u.Role]))
	copy(caps, roleCapabilities[u.Role])
	return caps
}

type User struct {
	ID           int64
	LoginID      string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
