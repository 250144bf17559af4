package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solar_sizer/internal/model"
	"solar_sizer/internal/session"
	"solar_sizer/internal/sizing"
	"solar_sizer/internal/store"
)

// SessionParam is the query parameter naming the session to watch.
const SessionParam = "session"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errUnknownType = errors.New("unknown message type")

// Handler manages WebSocket connections and routes messages to the session
// service. Results reach clients through the Bridge.
type Handler struct {
	hub     *Hub
	service *session.Service
	logger  *zap.Logger
}

func NewHandler(hub *Hub, service *session.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, service: service, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(SessionParam)
	snap, err := h.service.Snapshot(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("loading session for websocket", zap.String("session_id", id), zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: id,
	}

	h.hub.Register(client)
	go client.writePump()

	// Send the current snapshot before any edits arrive
	h.sendTo(client, TypeSizingSnapshot, snap)

	h.readPump(r.Context(), client)
}

func (h *Handler) readPump(ctx context.Context, c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("session_id", c.session), zap.Error(err))
			}
			return
		}

		h.handleMessage(ctx, c, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.sendError(c, "", fmt.Errorf("invalid message: %w", err))
		return
	}

	if err := h.dispatch(ctx, c.session, env); err != nil {
		h.logger.Info("websocket request rejected",
			zap.String("session_id", c.session),
			zap.String("type", env.Type),
			zap.Error(err),
		)
		h.sendError(c, env.Type, err)
	}
}

func (h *Handler) dispatch(ctx context.Context, id string, env Envelope) error {
	var err error
	switch env.Type {
	case TypeLoadsAdd:
		var p model.RawLoad
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		_, err = h.service.AddLoad(ctx, id, sizing.NormalizeLoad(p))

	case TypeLoadsUpdate:
		var p LoadUpdatePayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		_, err = h.service.UpdateLoad(ctx, id, p.Index, sizing.NormalizeLoad(p.Load))

	case TypeLoadsRemove:
		var p LoadRemovePayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		_, err = h.service.RemoveLoad(ctx, id, p.Index)

	case TypeLoadsReplace:
		var p LoadsReplacePayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		_, err = h.service.ReplaceLoads(ctx, id, sizing.NormalizeLoads(p.Loads))

	case TypeConfigSet:
		if len(env.Payload) == 0 {
			return fmt.Errorf("%s: missing payload", env.Type)
		}
		// Fields left out keep the session's current values
		_, err = h.service.PatchConfig(ctx, id, env.Payload)

	case TypeSizingRefresh:
		_, err = h.service.Refresh(ctx, id)

	default:
		return fmt.Errorf("%w: %q", errUnknownType, env.Type)
	}
	return err
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", env.Type, err)
	}
	return nil
}

func (h *Handler) sendError(c *Client, request string, err error) {
	h.sendTo(c, TypeError, ErrorPayload{Request: request, Message: err.Error()})
}

func (h *Handler) sendTo(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.logger.Error("marshaling message", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
