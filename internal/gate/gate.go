// Package gate decides where a page request may go based on who is asking.
package gate

import (
	"strings"

	"github.com/ikkim/giftbox-backend/internal/app/model"
)

const (
	HomePath      = "/"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Decision is the outcome of routing a page request
type Decision int

const (
	Allow Decision = iota
	RedirectHome
	RedirectDashboard
	RedirectAdmin
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectHome:
		return "redirect_home"
	case RedirectDashboard:
		return "redirect_dashboard"
	case RedirectAdmin:
		return "redirect_admin"
	}
	return "unknown"
}

// Location is the redirect target, empty for Allow
func (d Decision) Location() string {
	switch d {
	case RedirectHome:
		return HomePath
	case RedirectDashboard:
		return DashboardPath
	case RedirectAdmin:
		return AdminPath
	}
	return ""
}

// Decide applies the routing rules in order; the first match wins.
// A nil identity is an anonymous caller.
func Decide(path string, id *model.Identity) Decision {
	path = Normalize(path)

	if id == nil {
		if path != HomePath {
			return RedirectHome
		}
		return Allow
	}

	if path == HomePath {
		if id.IsAdmin() {
			return RedirectAdmin
		}
		return RedirectDashboard
	}

	if path == AdminPath && !id.IsAdmin() {
		return RedirectDashboard
	}

	return Allow
}

// Normalize folds trailing slashes and sub-paths of the admin page into AdminPath
func Normalize(path string) string {
	if path == "" {
		return HomePath
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return HomePath
		}
	}
	if path == AdminPath || strings.HasPrefix(path, AdminPath+"/") {
		return AdminPath
	}
	return path
}
