package web

import (
	"time"

	"github.com/CeluchNB/stall-one-sub000/controller"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/games/{gameID}/points", func(r chi.Router) {
		r.Post("/", createFirstPointHandler(ctrl, render))
		r.Put("/reactivate", reactivatePointHandler(ctrl, render))
		r.Put("/{pointNumber:\\d+}/back", backPointHandler(ctrl, render))
		r.Put("/{pointID}/finish", finishPointHandler(ctrl, render))
		r.Delete("/{pointID}", deletePointHandler(ctrl, render))
	})

	r.Route("/points/{pointID}/actions", func(r chi.Router) {
		r.Get("/", getActionsHandler(ctrl, render))
		r.Get("/live", getLiveActionsHandler(ctrl, render))
		r.Post("/", appendActionHandler(ctrl, render))
		r.Post("/{actionNumber:\\d+}/comments", appendCommentHandler(ctrl, render))
	})

	return r
}
