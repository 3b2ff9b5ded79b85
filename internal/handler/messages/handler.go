package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/service/bot"
	"github.com/zhouzirui/eventbuddy/pkg/utils"
)

// BotService is the conversation loop the handler hands turns to.
type BotService interface {
	HandleTurn(ctx context.Context, in convo.Inbound) ([]convo.Outbound, error)
}

// Handler exposes the channel-facing message endpoints.
type Handler struct {
	bot       BotService
	appSecret string
}

// New creates the messages handler. appSecret, when non-empty, is required
// as a bearer credential on inbound REST turns.
func New(botSvc BotService, appSecret string) *Handler {
	return &Handler{bot: botSvc, appSecret: appSecret}
}

// RegisterRoutes mounts the REST endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleMessages)
}

// turnResponse is the wire envelope for one processed turn.
type turnResponse struct {
	Messages []convo.Outbound `json:"messages"`
}

// handleMessages processes one inbound turn from the channel connector.
func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		utils.RespondError(w, http.StatusUnauthorized, "invalid channel credentials")
		return
	}

	var inbound convo.Inbound
	if err := json.NewDecoder(r.Body).Decode(&inbound); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if inbound.Type == "" {
		inbound.Type = convo.InboundMessage
	}

	out, err := h.bot.HandleTurn(r.Context(), inbound)
	if err != nil {
		if errors.Is(err, bot.ErrConversationRequired) {
			utils.RespondError(w, http.StatusBadRequest, "conversationId is required")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	utils.RespondJSON(w, http.StatusOK, turnResponse{Messages: out})
}

// authorized checks the configured channel secret, if any.
func (h *Handler) authorized(r *http.Request) bool {
	if h.appSecret == "" {
		return true
	}
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ") == h.appSecret
}

// ConversationIDFromRequest extracts the conversation id path parameter.
func ConversationIDFromRequest(r *http.Request) string {
	return chi.URLParam(r, "conversationID")
}
