package ws

import (
	"go.uber.org/zap"

	"solar_sizer/internal/session"
)

// Bridge implements session.Callback and pushes snapshots to the clients
// watching that session.
type Bridge struct {
	hub *Hub
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub}
}

func (b *Bridge) OnSnapshot(sessionID string, snap session.Snapshot) {
	msg, err := NewEnvelope(TypeSizingSnapshot, snap)
	if err != nil {
		b.hub.logger.Error("marshaling snapshot", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	b.hub.BroadcastSession(sessionID, msg)
}
