package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/campuskit/identity/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints and the session-gated pages.
// The session-loading middleware is applied globally in main, so these
// handlers simply read whatever session it attached.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	// Account creation and login are plain POSTs from the public forms.
	e.POST("/signup", a.Signup)
	e.POST("/login", a.Login)
	// Logout is a GET so a plain link can trigger it; it is idempotent.
	e.GET("/logout", a.Logout)

	// The authenticated user's profile as JSON, served from the session's
	// identity cache when warm.
	e.GET("/api/me", a.Me)

	// Pages.  The raw .html URLs redirect through the session-gated routes
	// so bookmarked file paths cannot bypass the login check.
	e.GET("/", a.Root)
	e.GET("/dashboard", a.Dashboard)
	e.GET("/profile", a.ProfilePage)
	e.GET("/dashboard.html", handler.RedirectDashboardHTML)
	e.GET("/profile.html", handler.RedirectProfileHTML)
}

// RegisterGenerate registers the bundled text-generation proxy endpoint.
func RegisterGenerate(e *echo.Echo, g *handler.GenerateHandler) {
	e.POST("/api/generate", g.Generate)
}

// RegisterStatic serves the remaining public assets (login and signup pages,
// stylesheets) directly from the public directory.  Explicit routes above
// take precedence over the static wildcard.
func RegisterStatic(e *echo.Echo, dir string) {
	e.Static("/", dir)
}
