package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/lehigh-university-libraries/restorer/internal/compare"
	"github.com/lehigh-university-libraries/restorer/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventMessage is exchanged over the session event stream
type EventMessage struct {
	Type     string         `json:"type"`
	State    *StateResponse `json:"state,omitempty"`
	Position *float64       `json:"position,omitempty"`
	Event    *compare.Event `json:"event,omitempty"`
}

// client messages are small JSON commands
const maxEventBytes = 4096

const (
	MessageState     = "state"
	MessageSlider    = "slider"
	MessageDragStart = "dragstart"
	MessagePointer   = "pointer"
)

type eventClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func (c *eventClient) enqueue(msg EventMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Unable to encode event", "type", msg.Type, "err", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		slog.Warn("Dropping event for slow client", "type", msg.Type)
	}
}

func (c *eventClient) writePump() {
	defer c.conn.Close()

	for {
		select {
		case message := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Error("WebSocket write error", "err", err)
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// newEventState is the pushed view of a session. The image data URLs are left
// out; clients fetch them from GET /api/sessions/{id} when the generation or
// has_restored changes.
func newEventState(sess *session.Session, state session.State) StateResponse {
	resp := newStateResponse(sess, state)
	resp.OriginalImageURL = ""
	resp.RestoredImageURL = ""
	return resp
}

// HandleEvents streams state and slider updates to the client and feeds the
// client's pointer events into the session's window
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "session_id", sess.ID, "err", err)
		return
	}

	client := &eventClient{
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
	go client.writePump()

	stopState := sess.Subscribe(func(state session.State) {
		resp := newEventState(sess, state)
		client.enqueue(EventMessage{Type: MessageState, State: &resp})
	})
	stopSlider := sess.WatchSlider(func(position float64) {
		client.enqueue(EventMessage{Type: MessageSlider, Position: &position})
	})

	initial := newEventState(sess, sess.Snapshot())
	client.enqueue(EventMessage{Type: MessageState, State: &initial})

	slog.Info("Event stream connected", "session_id", sess.ID)
	h.readEvents(sess, client)

	stopState()
	stopSlider()
	close(client.done)
	slog.Info("Event stream closed", "session_id", sess.ID)
}

func (h *Handler) readEvents(sess *session.Session, client *eventClient) {
	// drag this connection began; ended on disconnect if still current
	var drag uint64
	defer func() {
		sess.Slider.EndDrag(drag)
	}()

	client.conn.SetReadLimit(maxEventBytes)

	for {
		var message EventMessage
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("WebSocket read error", "session_id", sess.ID, "err", err)
			}
			return
		}

		switch message.Type {
		case MessageDragStart:
			if id := sess.Slider.Begin(sess.Window); id != 0 {
				drag = id
			}
		case MessagePointer:
			if message.Event == nil {
				continue
			}
			sess.Window.Dispatch(*message.Event)
		default:
			slog.Debug("Ignoring event", "session_id", sess.ID, "type", message.Type)
		}
	}
}
