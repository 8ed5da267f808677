package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chatbox-server/internal/core"
	"chatbox-server/internal/proto"
)

const writeTimeout = 5 * time.Second

// WSHandler upgrades HTTP connections and bridges them to a
// core.ConnectionHandler.
type WSHandler struct {
	registry    *core.SessionRegistry
	broadcaster *core.Broadcaster
	sealer      core.Sealer
	tickets     core.TicketVerifier
	botName     string
	log         *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.SessionRegistry, broadcaster *core.Broadcaster, sealer core.Sealer, tickets core.TicketVerifier, botName string, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		registry:    registry,
		broadcaster: broadcaster,
		sealer:      sealer,
		tickets:     tickets,
		botName:     botName,
		log:         logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	connID := uuid.NewString()
	handler := core.NewConnectionHandler(connID, h.botName, h.registry, h.broadcaster, h.sealer, h.tickets, h.log)
	defer handler.Disconnect()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sender := newWSSender(conn)
	h.broadcaster.Attach(connID, sender)
	go sender.run(ctx, connID, h.log)

	err = h.readLoop(ctx, conn, connID, sender, handler)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			status = websocket.StatusInternalError
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", connID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, connID string, sender *wsSender, handler *core.ConnectionHandler) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypeJoinRoom:
			var join proto.JoinRoomData
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return err
			}
			handler.JoinRoom(join.Username, join.Room, join.Ticket)
		case proto.InboundTypeChatMessage:
			var msg proto.ChatMessageData
			if err := json.Unmarshal(inbound.Data, &msg); err != nil {
				return err
			}
			handler.ChatMessage(msg.Text)
		default:
			h.log.Debug().Str("conn_id", connID).Str("type", inbound.Type).Msg("unknown inbound type")
			if err := sender.Send(core.EventError, core.ErrorPayload{
				Code: core.ErrCodeBadRequest,
				Msg:  "unknown message type",
			}); err != nil {
				return err
			}
		}
	}
}

var errSlowConsumer = errors.New("outbound buffer full")

// wsSender queues outbound events for one connection. Send never blocks:
// a full buffer means the consumer is too slow and the event is dropped
// with an error so the broadcaster can log it.
type wsSender struct {
	conn *websocket.Conn
	out  chan proto.Outbound
}

func newWSSender(conn *websocket.Conn) *wsSender {
	return &wsSender{
		conn: conn,
		out:  make(chan proto.Outbound, 32),
	}
}

// Send implements core.Sender.
func (s *wsSender) Send(event string, payload any) error {
	select {
	case s.out <- outboundFor(event, payload):
		return nil
	default:
		return errSlowConsumer
	}
}

func (s *wsSender) run(ctx context.Context, connID string, logger *zerolog.Logger) {
	for {
		select {
		case outbound := <-s.out:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, s.conn, outbound)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Warn().Err(err).Str("conn_id", connID).Msg("write ws event")
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func outboundFor(event string, payload any) proto.Outbound {
	if event == core.EventError {
		if ep, ok := payload.(core.ErrorPayload); ok {
			return proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: ep.Code, Msg: ep.Msg},
			}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "unknown", Msg: "unknown error"},
		}
	}
	return proto.Outbound{Type: event, Data: payload}
}
