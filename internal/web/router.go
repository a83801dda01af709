package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

func newRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.health)

	r.Route("/leagues/{leagueID}/draft", func(r chi.Router) {
		r.Post("/start", h.startDraft)
		r.Get("/status", h.draftStatus)
		r.Get("/picks", h.listPicks)
		r.Post("/picks", h.submitPick)
		r.Get("/available", h.availablePlayers)
		r.Get("/order", h.draftOrder)
		r.Get("/ws", h.watchDraft)
	})

	return r
}

func newRender() *render.Render {
	return render.New(render.Options{
		IndentJSON: true,
	})
}
