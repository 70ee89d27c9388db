// Package transport binds the Socket.IO server to the protocol handler.
// It owns nothing but the adapters: connection events in, protocol calls
// out, and room-group addressing for the fan-out side.
package transport

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	"mafiaroom/internal/metrics"
	"mafiaroom/internal/protocol"
	"mafiaroom/internal/rooms"
)

type Server struct {
	io   *socket.Server
	opts *socket.ServerOptions
	log  zerolog.Logger
}

func New(allowedOrigins []string, store *rooms.Store, log zerolog.Logger) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{
		Origin:      allowedOrigins,
		Credentials: true,
	})
	opts.SetAllowEIO3(true) // accept both EIO=3 and EIO=4 clients

	io := socket.NewServer(nil, opts)
	s := &Server{io: io, opts: opts, log: log}
	h := protocol.NewHandler(store, &serverEmitter{io: io}, log)

	io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		metrics.ConnectedClients.Inc()
		log.Info().Str("socket", string(client.Id())).Msg("client connected")

		conn := &socketConn{sock: client}
		client.On(protocol.EventCreateRoom, func(args ...any) {
			h.HandleCreateRoom(conn, args)
		})
		client.On(protocol.EventJoinRoom, func(args ...any) {
			h.HandleJoinRoom(conn, args)
		})
		client.On(protocol.EventDistributeRoles, func(args ...any) {
			h.HandleDistributeRoles(conn, args)
		})
		client.On(protocol.EventGetRoomInfo, func(args ...any) {
			h.HandleRoomInfo(conn, args)
		})
		client.On("disconnect", func(args ...any) {
			metrics.ConnectedClients.Dec()
			reason := ""
			if len(args) > 0 {
				reason = fmt.Sprintf("%v", args[0])
			}
			log.Info().Str("socket", string(client.Id())).Str("reason", reason).Msg("client disconnected")
			h.HandleDisconnect(string(client.Id()))
		})
	})

	return s
}

// Handler returns the HTTP handler for the /socket.io/ endpoint.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(s.opts)
}

func (s *Server) Close() {
	s.io.Close(nil)
}

// socketConn adapts *socket.Socket to protocol.Conn.
type socketConn struct {
	sock *socket.Socket
}

func (c *socketConn) ID() string {
	return string(c.sock.Id())
}

func (c *socketConn) Emit(event string, payload any) {
	c.sock.Emit(event, payload)
}

func (c *socketConn) Join(room string) {
	c.sock.Join(socket.Room(room))
}

// serverEmitter implements protocol.Emitter on top of Socket.IO room
// addressing. Every socket is a member of the group named by its own id,
// which is what makes per-connection delivery work.
type serverEmitter struct {
	io *socket.Server
}

func (e *serverEmitter) ToConn(connID, event string, payload any) {
	e.io.To(socket.Room(connID)).Emit(event, payload)
}

func (e *serverEmitter) ToRoom(roomCode, event string, payload any) {
	e.io.To(socket.Room(roomCode)).Emit(event, payload)
}
