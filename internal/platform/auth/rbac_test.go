package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithAuth(req *http.Request, roles, perms []string) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	ctx = context.WithValue(ctx, UserRolesKey, roles)
	ctx = context.WithValue(ctx, UserPermsKey, perms)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name      string
		userRoles []string
		required  []string
		wantCode  int
	}{
		{"exact match", []string{"safety_manager"}, []string{"safety_manager"}, http.StatusOK},
		{"one of several", []string{"foreman"}, []string{"safety_manager", "foreman"}, http.StatusOK},
		{"admin override", []string{"admin"}, []string{"safety_manager"}, http.StatusOK},
		{"missing role", []string{"viewer"}, []string{"safety_manager"}, http.StatusForbidden},
		{"no roles", nil, []string{"safety_manager"}, http.StatusForbidden},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = contextWithAuth(req, tt.userRoles, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequireRole(tt.required...)(okHandler)(c)

			if tt.wantCode == http.StatusOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if he.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, he.Code)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name      string
		perms     []string
		resource  string
		operation string
		allowed   bool
	}{
		{"exact match", []string{"incidents.classify"}, "incidents", "classify", true},
		{"resource wildcard", []string{"incidents.*"}, "incidents", "close", true},
		{"full wildcard", []string{"*.*"}, "payapps", "export", true},
		{"operation wildcard", []string{"*.read"}, "projects", "read", true},
		{"wrong resource", []string{"projects.read"}, "incidents", "read", false},
		{"wrong operation", []string{"incidents.read"}, "incidents", "classify", false},
		{"no permissions", nil, "incidents", "read", false},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = contextWithAuth(req, nil, tt.perms)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequirePermission(tt.resource, tt.operation)(okHandler)(c)

			if tt.allowed {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if he.Code != http.StatusForbidden {
				t.Errorf("expected 403, got %d", he.Code)
			}
		})
	}
}

func TestMatchPermission(t *testing.T) {
	tests := []struct {
		granted  string
		required string
		want     bool
	}{
		{"incidents.read", "incidents.read", true},
		{"incidents.*", "incidents.read", true},
		{"*.*", "anything.anything", true},
		{"incidents.read", "incidents.write", false},
		{"malformed", "incidents.read", false},
		{"incidents.read", "malformed", false},
	}

	for _, tt := range tests {
		if got := matchPermission(tt.granted, tt.required); got != tt.want {
			t.Errorf("matchPermission(%q, %q) = %v, want %v", tt.granted, tt.required, got, tt.want)
		}
	}
}

func TestIsPublicPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/db", true},
		{"/metrics", true},
		{"/portal/shares/abc123", true},
		{"/api/v1/incidents", false},
		{"/", false},
	}

	for _, tt := range tests {
		if got := IsPublicPath(tt.path); got != tt.want {
			t.Errorf("IsPublicPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
