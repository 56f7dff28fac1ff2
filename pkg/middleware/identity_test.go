package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"reservio/pkg/model"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		userRole  string
		wantID    string
		wantRole  model.Role
		wantAdmin bool
	}{
		{"admin", "user-1", "admin", "user-1", model.RoleAdmin, true},
		{"member", "user-2", "member", "user-2", model.RoleMember, false},
		{"missing role defaults to member", "user-3", "", "user-3", model.RoleMember, false},
		{"unknown role downgraded", "user-4", "root", "user-4", model.RoleMember, false},
		{"anonymous", "", "admin", "", model.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.Principal
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = PrincipalFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			if tt.userRole != "" {
				req.Header.Set("X-User-Role", tt.userRole)
			}

			Identity()(next).ServeHTTP(httptest.NewRecorder(), req)

			if got.ID != tt.wantID {
				t.Errorf("principal ID = %q, want %q", got.ID, tt.wantID)
			}
			if got.Role != tt.wantRole {
				t.Errorf("principal role = %q, want %q", got.Role, tt.wantRole)
			}
			if got.IsAdmin() != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got.IsAdmin(), tt.wantAdmin)
			}
		})
	}
}

func TestPrincipalFromContext_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	principal := PrincipalFromContext(req.Context())
	if principal.ID != "" {
		t.Errorf("principal ID = %q, want empty", principal.ID)
	}
	if principal.CanModify(&model.Booking{CreatedBy: "user-1"}) {
		t.Error("zero principal must not be allowed to modify anything")
	}
}
