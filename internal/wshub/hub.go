// Package wshub is the websocket gateway: it accepts connections, decodes
// client events and hands them to the room registry, and writes each
// connection's outbound queue back to the socket.
package wshub

import (
	"cinequiz/internal/broadcast"
	"cinequiz/internal/events"
	"cinequiz/internal/rooms"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client events.
const (
	JoinRoom       = "join-room"
	SendMessage    = "send-message"
	LeaveRoom      = "leave-room"
	ToggleReady    = "toggle-ready"
	StartGame      = "start-game"
	AnswerQuestion = "answer-question"
)

const (
	readLimit    = 16 << 10
	writeTimeout = 5 * time.Second
)

// Rooms is the part of the registry the gateway drives.
type Rooms interface {
	Connect(connID, nameHint string)
	Join(connID, roomName string) (events.RoomJoinedPayload, error)
	Leave(connID, roomName string)
	Disconnect(connID string)
	ToggleReady(connID string)
	SendMessage(connID, roomName, text string) error
	StartGame(connID string) error
	Answer(connID, questionID, answer string)
}

// ClientMessage is the JSON frame received from clients.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type roomData struct {
	RoomName string `json:"roomName"`
	Message  string `json:"message"`
}


// Client represents a single WebSocket connection.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send <-chan events.Event
}

// WritePump writes queued events until the queue is closed, ctx is done or
// a write fails.
func (c *Client) WritePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-c.Send:
			if !ok {
				return nil
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.Conn, ev)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

type Hub struct {
	rooms Rooms
	out   *broadcast.Broadcaster
	log   *zap.Logger

	AcceptOptions *websocket.AcceptOptions
}

func NewHub(r Rooms, out *broadcast.Broadcaster, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		rooms: r,
		out:   out,
		log:   log,
		AcceptOptions: &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		},
	}
}

// ServeHTTP upgrades the request and serves the connection until either
// side closes it. The optional name query parameter is the display name.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, h.AcceptOptions)
	if err != nil {
		h.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(readLimit)

	c := &Client{ID: uuid.NewString(), Conn: conn}
	c.Send = h.out.Subscribe(c.ID)
	log := h.log.With(zap.String("conn", c.ID))
	log.Debug("client connected", zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		if err := c.WritePump(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug("write pump stopped", zap.Error(err))
		}
		cancel()
	}()

	h.rooms.Connect(c.ID, r.URL.Query().Get("name"))
	err = h.readLoop(ctx, c)

	h.rooms.Disconnect(c.ID)
	h.out.Unsubscribe(c.ID)
	conn.Close(websocket.StatusNormalClosure, "")
	log.Debug("client disconnected", zap.Error(err))
}

func (h *Hub) readLoop(ctx context.Context, c *Client) error {
	for {
		typ, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			h.out.Send(c.ID, events.NewError("Invalid message"))
			continue
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.out.Send(c.ID, events.NewError("Invalid message"))
			continue
		}
		h.Dispatch(c.ID, msg)
	}
}

// Dispatch applies one client event on behalf of connID. Request errors
// are reported to that connection only.
func (h *Hub) Dispatch(connID string, msg ClientMessage) {
	var err error
	switch msg.Event {
	case JoinRoom:
		var d roomData
		if err = decode(msg.Data, &d); err == nil {
			_, err = h.rooms.Join(connID, d.RoomName)
		}
	case SendMessage:
		var d roomData
		if err = decode(msg.Data, &d); err == nil {
			err = h.rooms.SendMessage(connID, d.RoomName, d.Message)
		}
	case LeaveRoom:
		var d roomData
		if err = decode(msg.Data, &d); err == nil {
			h.rooms.Leave(connID, d.RoomName)
		}
	case ToggleReady:
		h.rooms.ToggleReady(connID)
	case StartGame:
		err = h.rooms.StartGame(connID)
	case AnswerQuestion:
		questionID, answer := decodeAnswer(msg.Data)
		h.rooms.Answer(connID, questionID, answer)
	default:
		h.out.Send(connID, events.NewError("Unknown event: "+msg.Event))
		return
	}
	if err != nil {
		h.reportError(connID, msg.Event, err)
	}
}

func (h *Hub) reportError(connID, event string, err error) {
	var re *rooms.Error
	if errors.As(err, &re) {
		h.out.Send(connID, events.NewError(re.Message))
		return
	}
	h.log.Debug("bad request", zap.String("conn", connID), zap.String("event", event), zap.Error(err))
	h.out.Send(connID, events.NewError("Invalid data for "+event))
}

// decodeAnswer never fails: a missing or mistyped field reads as "", which
// refers to the current question and matches no film.
func decodeAnswer(raw json.RawMessage) (questionID, answer string) {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return "", ""
	}
	return stringField(fields["questionId"]), stringField(fields["answer"])
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
