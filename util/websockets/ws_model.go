package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeReportEvent = "report_event"
	MsgTypeIssueEvent  = "issue_event"
)

// Client represents a connected dashboard session
type Client struct {
	Conn      *websocket.Conn
	SessionID string
	Latitude  float64
	Longitude float64
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type      string  `json:"type"`
	SessionID string  `json:"session_id"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}
