package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies which principal table the caller belongs to.
type Role string

const (
	RoleOwner   Role = "propietario"
	RoleTutor   Role = "tutor"
	RoleStudent Role = "alumno"
)

// Valid reports whether the role is one of the three principal kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleTutor, RoleStudent:
		return true
	default:
		return false
	}
}

// Principal is the authenticated caller, resolved once at the auth boundary
// and passed explicitly into every operation that scopes by caller.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsOwner reports whether the principal is an owner.
func (p Principal) IsOwner() bool { return p.Role == RoleOwner }

// IsStudent reports whether the principal is a student.
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }

// LoginRequest holds credentials for the shared login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and resolved principal.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int64         `json:"expires_in"`
	User        PrincipalInfo `json:"user"`
	IssuedAt    time.Time     `json:"issued_at"`
}

// PrincipalInfo describes the authenticated user in responses.
type PrincipalInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	PrincipalID string `json:"principal_id"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the caller-context value.
func (c *JWTClaims) Principal() Principal {
	if c == nil {
		return Principal{}
	}
	return Principal{ID: c.PrincipalID, Role: c.Role}
}
