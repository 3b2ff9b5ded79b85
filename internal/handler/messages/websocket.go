package messages

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// WebSocketHandler speaks the same turn protocol over a WebSocket, one
// connection per conversation. Turns are serialized by the bot service's
// per-conversation lock, so a misbehaving client cannot interleave them.
type WebSocketHandler struct {
	bot      BotService
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the WebSocket transport.
func NewWebSocketHandler(botSvc BotService) *WebSocketHandler {
	return &WebSocketHandler{
		bot: botSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{conversationID}", h.handleWebSocket)
}

// wsError is the error frame sent to clients; the connection stays open.
type wsError struct {
	Error string `json:"error"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := ConversationIDFromRequest(r)
	if conversationID == "" {
		http.Error(w, "conversationID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] conversation %s connected", conversationID)

	for {
		var inbound convo.Inbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] conversation %s read error: %v", conversationID, err)
			}
			return
		}

		// The path parameter owns the conversation identity.
		inbound.ConversationID = conversationID
		if inbound.Type == "" {
			inbound.Type = convo.InboundMessage
		}

		out, err := h.bot.HandleTurn(r.Context(), inbound)
		if err != nil {
			log.Printf("[ws] conversation %s turn failed: %v", conversationID, err)
			if writeErr := conn.WriteJSON(wsError{Error: "failed to process message"}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(turnResponse{Messages: out}); err != nil {
			log.Printf("[ws] conversation %s write error: %v", conversationID, err)
			return
		}
	}
}
