package game

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	sendBufferSize = 64
	pingInterval   = 30 * time.Second
)

// Client is one live connection. Its id doubles as the participant id in
// every room it joins; it is connection-scoped, not a durable identity.
//
// rooms is only touched from the read goroutine (joins, leaves and the
// final disconnect all run there), so it needs no lock.
type Client struct {
	ID      string
	session NetworkSession
	send    chan ServerMessage
	limiter *rate.Limiter
	gw      *Gateway
	rooms   map[string]struct{}
}

func NewClient(id string, session NetworkSession, gw *Gateway) *Client {
	return &Client{
		ID:      id,
		session: session,
		send:    make(chan ServerMessage, sendBufferSize),
		limiter: rate.NewLimiter(1, 5),
		gw:      gw,
		rooms:   make(map[string]struct{}),
	}
}

// ReadPump pumps messages from the connection into the gateway. It is
// the only reader of the connection. A read error is the transport-level
// disconnect signal and triggers an implicit leave of every room.
func (c *Client) ReadPump() {
	defer func() {
		c.gw.Disconnect(c)
		close(c.send)
	}()
	for {
		data, err := c.session.Read()
		if err != nil {
			log.Debug().Str("client", c.ID).Err(err).Msg("connection closed")
			return
		}
		if !c.limiter.Allow() {
			c.SendError(ErrorCodeRateLimited, "Too many messages.", "")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.SendError(ErrorCodeInvalidRequest, "Malformed message.", "")
			continue
		}
		c.gw.Dispatch(c, msg)
	}
}

// WritePump is the only writer of the connection. It drains the send
// channel until ReadPump closes it and keeps the connection alive with
// periodic pings in between.
func (c *Client) WritePump() {
	defer c.session.Close("")
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				log.Error().Str("client", c.ID).Err(err).Msg("marshal server message")
				continue
			}
			if err := c.session.Write(data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.session.Ping(); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message for the write pump. The payload must
// marshal; on a full buffer the message is dropped and logged, a slow
// consumer never blocks a room mutation.
func (c *Client) SendMessage(msgType ServerMessageType, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Str("client", c.ID).Str("type", string(msgType)).Err(err).Msg("marshal payload")
		return
	}
	select {
	case c.send <- ServerMessage{Type: msgType, Payload: raw}:
	default:
		log.Warn().Str("client", c.ID).Str("type", string(msgType)).Msg("send buffer full, dropping")
	}
}

// SendError sends a rejection acknowledgment to this client only.
func (c *Client) SendError(code ServerErrorCode, message string, reqType ClientMessageType) {
	c.SendMessage(ServerMessageError, ServerErrorPayload{
		Code:        code,
		Message:     message,
		RequestType: reqType,
	})
}
