// Package stream serves the interactive blueprint over a websocket. Each
// connection owns a session (debounced metrics) and a simulation runner
// (newest request wins).
package stream

import (
	"encoding/json"

	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/service"
)

// Client message types.
const (
	MsgSimulate = "simulate"
	MsgCancel   = "cancel"
	MsgProfile  = "profile"
	MsgStyle    = "style"
	MsgSubmit   = "submit"
)

// Server frame types.
const (
	FrameStarted   = "started"
	FrameResult    = "result"
	FrameError     = "error"
	FrameMetrics   = "metrics"
	FrameCancelled = "cancelled"
	FrameSaved     = "saved"
)

// ClientMessage is any message a client sends. Only the fields relevant to
// Type are read.
type ClientMessage struct {
	Type    string                `json:"type"`
	Request *SimulateRequest      `json:"request,omitempty"`
	Profile *models.TraderProfile `json:"profile,omitempty"`
	Style   string                `json:"style,omitempty"`
}

// SimulateRequest is the payload of a simulate message. Trials falls back to
// the configured default only when omitted; an explicit zero is rejected.
type SimulateRequest struct {
	Profile models.TraderProfile `json:"profile"`
	Style   models.RiskStyle     `json:"style"`
	Trials  *int                 `json:"trials,omitempty"`
	Seed    int64                `json:"seed"`
}

func (r SimulateRequest) resolve(defaultTrials int) models.SimulationRequest {
	req := models.SimulationRequest{
		Profile: r.Profile,
		Style:   r.Style,
		Trials:  defaultTrials,
		Seed:    r.Seed,
	}
	if req.Style == "" {
		req.Style = models.DefaultRiskStyle
	}
	if r.Trials != nil {
		req.Trials = *r.Trials
	}
	return req
}

// ErrorBody mirrors the REST error shape.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Frame is any message the server sends.
type Frame struct {
	Type       string                   `json:"type"`
	Generation uint64                   `json:"generation,omitempty"`
	Result     *models.SimulationResult `json:"result,omitempty"`
	Snapshot   *service.Snapshot        `json:"snapshot,omitempty"`
	Error      *ErrorBody               `json:"error,omitempty"`
}

func decodeMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	err := json.Unmarshal(data, &msg)
	return msg, err
}
