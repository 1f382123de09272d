package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
)

// caller is the authenticated identity extracted from access-token
// claims. Every protected handler goes through identity() so the
// claim names live in one place.
type caller struct {
	UserID    string
	CompanyID string
	Email     string
	Role      user.Role
}

func (c caller) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}

// SystemContext converts the caller for assistant engine calls.
func (c caller) SystemContext() assistant.SystemContext {
	return assistant.SystemContext{
		UserID:    c.UserID,
		UserRole:  c.Role,
		CompanyID: c.CompanyID,
	}
}

func identity(r *http.Request) (caller, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return caller{}, false
	}

	userID, _ := claims["user_id"].(string)
	companyID, _ := claims["company_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	if userID == "" || companyID == "" {
		return caller{}, false
	}

	return caller{
		UserID:    userID,
		CompanyID: companyID,
		Email:     email,
		Role:      user.Role(role),
	}, true
}

// queryInt reads an integer query parameter, falling back when absent
// or malformed.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryString returns a pointer to the query parameter, or nil when
// it is absent.
func queryString(r *http.Request, key string) *string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	return &raw
}
