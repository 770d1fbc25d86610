package browse

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/SaxonF/supawatch/internal/admin"
)

// SetupRoutes registers the browse feature routes.
func SetupRoutes(
	router chi.Router,
	svc *admin.Service,
	sessionStore sessions.Store,
) error {
	handlers := NewHandlers(svc, sessionStore)

	router.Route("/api/tabs", func(r chi.Router) {
		r.Get("/", handlers.Tabs)
		r.Post("/", handlers.OpenTabSSE)
		r.Route("/{tabID}", func(r chi.Router) {
			r.Get("/stack", handlers.Stack)
			r.Post("/push", handlers.PushSSE)
			r.Post("/pop", handlers.PopSSE)
			r.Delete("/", handlers.CloseTab)
		})
	})

	return nil
}
