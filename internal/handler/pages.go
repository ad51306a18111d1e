package handler

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/identity/internal/middleware"
)

// Page handlers gate the dashboard and profile pages behind the session:
// unauthenticated visitors are bounced to the login page instead of a 401,
// because these are browser destinations, not API endpoints.

// Root serves the login page.
func (h *AuthHandler) Root(c echo.Context) error {
	return c.File(filepath.Join(h.Cfg.PublicDir, "login.html"))
}

// Dashboard serves the dashboard page to authenticated sessions only.
func (h *AuthHandler) Dashboard(c echo.Context) error {
	if middleware.SessionFrom(c) == nil {
		return c.Redirect(http.StatusFound, "/login.html")
	}
	return c.File(filepath.Join(h.Cfg.PublicDir, "dashboard.html"))
}

// ProfilePage serves the profile page to authenticated sessions only.
func (h *AuthHandler) ProfilePage(c echo.Context) error {
	if middleware.SessionFrom(c) == nil {
		return c.Redirect(http.StatusFound, "/login.html")
	}
	return c.File(filepath.Join(h.Cfg.PublicDir, "profile.html"))
}

// RedirectDashboardHTML forces the raw file URL through the protected route.
func RedirectDashboardHTML(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

// RedirectProfileHTML forces the raw file URL through the protected route.
func RedirectProfileHTML(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/profile")
}
