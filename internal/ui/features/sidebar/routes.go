package sidebar

import (
	"github.com/go-chi/chi/v5"

	"github.com/SaxonF/supawatch/internal/admin"
)

// SetupRoutes registers the sidebar feature routes.
func SetupRoutes(router chi.Router, svc *admin.Service) error {
	handlers := NewHandlers(svc)

	router.Route("/api/sidebar", func(r chi.Router) {
		r.Get("/", handlers.Sidebar)
		r.Get("/sse", handlers.SidebarSSE)
		r.Post("/import", handlers.ImportSSE)
		r.Post("/items", handlers.NewItemSSE)
	})

	return nil
}
