package httpkit

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as seen by handlers. It hides
// the gin context keys the auth middleware populates, so services and
// handlers never touch the framework to learn who is calling.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole reports whether the user holds the named role.
	HasRole(role string) bool
	// IsAdmin reports whether the user holds the admin role. Every
	// other authenticated user is a field engineer.
	IsAdmin() bool
	// IsAuthenticated reports whether the request carried a valid token.
	IsAuthenticated() bool
}

// tokenIdentity is the Identity backed by the claims the auth
// middleware extracted from the access token.
type tokenIdentity struct {
	userID        uuid.UUID
	roles         []string
	authenticated bool
}

func (i *tokenIdentity) UserID() uuid.UUID {
	return i.userID
}

func (i *tokenIdentity) Roles() []string {
	return i.roles
}

func (i *tokenIdentity) HasRole(role string) bool {
	return slices.Contains(i.roles, role)
}

func (i *tokenIdentity) IsAdmin() bool {
	return i.HasRole("admin")
}

func (i *tokenIdentity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity reads the caller's identity from the Gin context. When
// the auth middleware did not run or rejected the token, the returned
// identity reports unauthenticated rather than failing.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	roles, rolesOK := c.Get(ContextRolesKey)

	if !userOK {
		return &tokenIdentity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &tokenIdentity{authenticated: false}
	}

	var roleList []string
	if rolesOK {
		roleList, _ = roles.([]string)
	}

	return &tokenIdentity{
		userID:        uid,
		roles:         roleList,
		authenticated: true,
	}
}

// MustGetIdentity reads the caller's identity and aborts the request
// with 401 when unauthenticated. Callers must return on nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
