package ws

import (
	"encoding/json"

	"solar_sizer/internal/model"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client -> Server message types
const (
	TypeLoadsAdd      = "loads:add"
	TypeLoadsUpdate   = "loads:update"
	TypeLoadsRemove   = "loads:remove"
	TypeLoadsReplace  = "loads:replace"
	TypeConfigSet     = "config:set"
	TypeSizingRefresh = "sizing:refresh"
)

// Server -> Client message types
const (
	TypeSizingSnapshot = "sizing:snapshot"
	TypeError          = "error"
)

// Client -> Server messages. Load rows are loosely typed and normalized on
// arrival, so "50", 1.5 or "yes" are accepted where numbers or booleans are
// expected.

type LoadUpdatePayload struct {
	Index int           `json:"index"`
	Load  model.RawLoad `json:"load"`
}

type LoadRemovePayload struct {
	Index int `json:"index"`
}

type LoadsReplacePayload struct {
	Loads []model.RawLoad `json:"loads"`
}

// Server -> Client messages

type ErrorPayload struct {
	Request string `json:"request,omitempty"`
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
