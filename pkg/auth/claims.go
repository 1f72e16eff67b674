package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role is the coarse access level carried in identity tokens.
type Role string

const (
	RoleShopper Role = "shopper"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	return r == RoleShopper || r == RoleAdmin
}

// IdentityPayload captures the data available when minting a token.
type IdentityPayload struct {
	UserID string
	Email  string
	Role   Role
}

// IdentityClaims represents the typed JWT minted by the identity provider.
// The backend only parses these; it never stores credentials.
type IdentityClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
