// Package router sets up HTTP routes for the browsing server.
package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/SaxonF/supawatch/internal/admin"
	browseFeature "github.com/SaxonF/supawatch/internal/ui/features/browse"
	sidebarFeature "github.com/SaxonF/supawatch/internal/ui/features/sidebar"
)

// SetupRoutes configures all routes for the browsing server.
func SetupRoutes(
	router chi.Router,
	svc *admin.Service,
	sessionStore *sessions.CookieStore,
) error {
	if err := sidebarFeature.SetupRoutes(router, svc); err != nil {
		return err
	}

	if err := browseFeature.SetupRoutes(router, svc, sessionStore); err != nil {
		return err
	}

	return nil
}
