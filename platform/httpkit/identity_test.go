package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetIdentityWithoutAuthContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id := GetIdentity(c)
	if id.IsAuthenticated() {
		t.Error("missing auth context must yield an unauthenticated identity")
	}
	if id.IsAdmin() {
		t.Error("unauthenticated identity must not be admin")
	}
}

func TestGetIdentityRoles(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		roles     []string
		wantAdmin bool
	}{
		{"admin", []string{"admin"}, true},
		{"engineer", []string{"engineer"}, false},
		{"no roles", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Set(ContextUserIDKey, userID)
			if tt.roles != nil {
				c.Set(ContextRolesKey, tt.roles)
			}

			id := GetIdentity(c)
			if !id.IsAuthenticated() {
				t.Fatal("expected authenticated identity")
			}
			if id.UserID() != userID {
				t.Errorf("UserID() = %v, want %v", id.UserID(), userID)
			}
			if id.IsAdmin() != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", id.IsAdmin(), tt.wantAdmin)
			}
		})
	}
}

func TestMustGetIdentityAbortsUnauthenticated(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	if id := MustGetIdentity(c); id != nil {
		t.Fatal("expected nil identity for unauthenticated request")
	}
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", recorder.Code)
	}
}
