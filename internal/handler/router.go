package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/eventbuddy/internal/handler/messages"
	middlewarePkg "github.com/zhouzirui/eventbuddy/internal/middleware"
	"github.com/zhouzirui/eventbuddy/pkg/utils"
)

// NewRouter wires HTTP routes to the conversation loop.
func NewRouter(botSvc messages.BotService, appSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	messagesHandler := messages.New(botSvc, appSecret)
	wsHandler := messages.NewWebSocketHandler(botSvc)

	r.Route("/api", func(api chi.Router) {
		messagesHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)

		api.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
