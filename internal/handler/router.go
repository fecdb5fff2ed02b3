package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/peterthehammer1/FongoAI/internal/calllog"
	"github.com/peterthehammer1/FongoAI/internal/dialogue"
	"github.com/peterthehammer1/FongoAI/internal/handler/llm"
	middlewarePkg "github.com/peterthehammer1/FongoAI/internal/middleware"
	"github.com/peterthehammer1/FongoAI/internal/session"
	"github.com/peterthehammer1/FongoAI/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(engine *dialogue.Engine, store *session.Store, recorder calllog.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	llmHandler := llm.New(engine, store, recorder)
	llmHandler.RegisterRoutes(r)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"activeCalls": store.Active(),
			"time":        time.Now().UTC().Format(time.RFC3339),
		})
	})

	return r
}
