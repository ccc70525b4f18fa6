package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"skillswap/tools/decode"
)

// Frame types accepted from clients.
const (
	FrameAuth        = "auth"
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FramePing        = "ping"
	FrameTyping      = "typing"
	FrameSend        = "send"
)

// Frame types emitted by the server.
const (
	FrameConn  = "conn"
	FrameAck   = "ack"
	FramePong  = "pong"
	FrameEvent = "event"
	FrameError = "error"
)

// Frame is the client-to-server envelope. Payload stays loosely typed
// until the per-type handler decodes it.
type Frame struct {
	Type    string         `json:"type"`
	Topic   string         `json:"topic,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("frame missing type")
	}
	return f, nil
}

type AuthPayload struct {
	Token string `json:"token"`
}

type SendPayload struct {
	Text string `json:"text"`
}

func (f *Frame) AuthPayload() (*AuthPayload, error) {
	return decode.Map[AuthPayload](f.Payload)
}

func (f *Frame) SendPayload() (*SendPayload, error) {
	return decode.Map[SendPayload](f.Payload)
}

// EventFrame is the server-to-client push envelope.
type EventFrame struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
	Event string `json:"event"`
	Data  any    `json:"data"`
	Ts    int64  `json:"ts"`
}

func BuildEventFrame(topic Topic, event string, data any) ([]byte, error) {
	return json.Marshal(EventFrame{
		Type:  FrameEvent,
		Topic: topic.String(),
		Event: event,
		Data:  data,
		Ts:    time.Now().UnixMilli(),
	})
}

func buildConnAck(connID string) []byte {
	b, _ := json.Marshal(map[string]any{"type": FrameConn, "connId": connID, "ts": time.Now().UnixMilli()})
	return b
}

func buildAck(op, topic string) []byte {
	b, _ := json.Marshal(map[string]any{"type": FrameAck, "op": op, "topic": topic})
	return b
}

func buildPong() []byte {
	b, _ := json.Marshal(map[string]any{"type": FramePong, "ts": time.Now().UnixMilli()})
	return b
}

func buildErrorFrame(code int, msg string) []byte {
	b, _ := json.Marshal(map[string]any{"type": FrameError, "code": code, "msg": msg})
	return b
}
