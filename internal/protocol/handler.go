// Package protocol routes named client messages to the room registry and
// fans the results back out over the transport. The handler itself keeps no
// state between messages; all state lives in rooms.Store.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"mafiaroom/internal/metrics"
	"mafiaroom/internal/roles"
	"mafiaroom/internal/rooms"
)

// Conn is the server's view of one client connection.
type Conn interface {
	ID() string
	Emit(event string, payload any)
	Join(room string)
}

// Emitter addresses messages to a single connection or to a whole room
// group, independent of the transport's own membership mechanism.
type Emitter interface {
	ToConn(connID, event string, payload any)
	ToRoom(roomCode, event string, payload any)
}

// User-facing strings match what the web client displays verbatim.
const (
	msgRoomNotFound       = "Комната не найдена"
	msgAlreadyJoined      = "Вы уже в этой комнате"
	msgNotHost            = "Только ведущий может раздавать роли"
	msgAlreadyDistributed = "Роли уже розданы"
	msgHostLeft           = "Ведущий покинул комнату"
	msgBadRequest         = "Некорректный запрос"
	msgInternal           = "Внутренняя ошибка сервера"
)

type Handler struct {
	store *rooms.Store
	emit  Emitter
	log   zerolog.Logger
}

func NewHandler(store *rooms.Store, emit Emitter, log zerolog.Logger) *Handler {
	return &Handler{store: store, emit: emit, log: log}
}

// decodePayload normalizes a socket.io event argument into the typed
// payload. The transport delivers loosely typed JSON values; a marshal
// round-trip gets them into shape regardless of the concrete form.
func decodePayload[T any](args []any) (T, bool) {
	var out T
	if len(args) == 0 {
		return out, false
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

// normalizeCode upper-cases a client-supplied room code. The client does
// this too, but the server does not rely on it.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (h *Handler) HandleCreateRoom(c Conn, args []any) {
	settings, ok := decodePayload[roles.Settings](args)
	if !ok && len(args) > 0 {
		c.Emit(EventError, ErrorMessage{Message: msgBadRequest})
		return
	}

	code, _, err := h.store.Create(c.ID(), settings)
	if err != nil {
		h.log.Error().Err(err).Str("host", c.ID()).Msg("create room failed")
		c.Emit(EventError, ErrorMessage{Message: msgInternal})
		return
	}

	c.Join(code)
	metrics.RoomsCreated.Inc()
	metrics.RoomsOpen.Inc()

	c.Emit(EventRoomCreated, RoomCreated{RoomID: code, HostID: c.ID()})
	h.log.Info().Str("room", code).Str("host", c.ID()).Msg("room created")
}

func (h *Handler) HandleJoinRoom(c Conn, args []any) {
	req, ok := decodePayload[JoinRoomRequest](args)
	if !ok || req.RoomID == "" {
		c.Emit(EventError, ErrorMessage{Message: msgBadRequest})
		return
	}
	code := normalizeCode(req.RoomID)

	res, err := h.store.Join(code, c.ID(), req.PlayerName)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.Join(code)
	metrics.PlayersJoined.Inc()

	h.emit.ToRoom(code, EventPlayerJoined, PlayerJoined{
		Player:  res.Player,
		Players: res.Players,
	})
	h.log.Info().Str("room", code).Str("player", res.Player.PlayerName).Msg("player joined")
}

func (h *Handler) HandleDistributeRoles(c Conn, args []any) {
	req, ok := decodePayload[RoomRequest](args)
	if !ok || req.RoomID == "" {
		c.Emit(EventError, ErrorMessage{Message: msgBadRequest})
		return
	}
	code := normalizeCode(req.RoomID)

	res, err := h.store.Distribute(code, c.ID())
	if err != nil {
		h.sendError(c, err)
		return
	}

	for _, p := range res.Players {
		h.emit.ToConn(p.SocketID, EventRoleAssigned, RoleAssigned{
			Role:       p.Role,
			PlayerName: p.PlayerName,
		})
	}
	h.emit.ToConn(res.HostID, EventRolesDistributed, RolesDistributed{Players: res.Players})
	h.emit.ToRoom(code, EventAllRolesDistributed, AllRolesDistributed{PlayerCount: len(res.Players)})

	metrics.RolesDealt.Inc()
	h.log.Info().Str("room", code).Int("players", len(res.Players)).Msg("roles distributed")
}

func (h *Handler) HandleRoomInfo(c Conn, args []any) {
	req, ok := decodePayload[RoomRequest](args)
	if !ok || req.RoomID == "" {
		c.Emit(EventError, ErrorMessage{Message: msgBadRequest})
		return
	}

	snap, err := h.store.Info(normalizeCode(req.RoomID), c.ID())
	if errors.Is(err, rooms.ErrNotHost) {
		// Only the host is answered; everyone else gets silence.
		return
	}
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.Emit(EventRoomInfo, RoomInfo{
		RoomID:           snap.Code,
		Settings:         snap.Settings,
		Players:          snap.Players,
		RolesDistributed: snap.RolesDistributed,
	})
}

// HandleDisconnect fans out the fallout of a closed connection: departure
// notices for rooms it played in, closure notices for rooms it hosted.
func (h *Handler) HandleDisconnect(connID string) {
	for _, d := range h.store.RemoveConnection(connID) {
		if d.HostLeft {
			h.emit.ToRoom(d.RoomCode, EventRoomClosed, RoomClosed{Message: msgHostLeft})
			metrics.RoomsOpen.Dec()
			metrics.RoomsClosed.Inc()
			h.log.Info().Str("room", d.RoomCode).Msg("room closed, host disconnected")
			continue
		}
		h.emit.ToRoom(d.RoomCode, EventPlayerLeft, PlayerLeft{
			SocketID: d.SocketID,
			Players:  d.Players,
		})
		h.log.Info().Str("room", d.RoomCode).Str("socket", d.SocketID).Msg("player left")
	}
}

// sendError resolves a registry failure to exactly one error notification
// for the requester. Unknown failures are logged and masked.
func (h *Handler) sendError(c Conn, err error) {
	var mismatch *roles.CountMismatchError
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		c.Emit(EventError, ErrorMessage{Message: msgRoomNotFound})
	case errors.Is(err, rooms.ErrAlreadyJoined):
		c.Emit(EventError, ErrorMessage{Message: msgAlreadyJoined})
	case errors.Is(err, rooms.ErrNotHost):
		c.Emit(EventError, ErrorMessage{Message: msgNotHost})
	case errors.Is(err, rooms.ErrAlreadyDistributed):
		c.Emit(EventError, ErrorMessage{Message: msgAlreadyDistributed})
	case errors.As(err, &mismatch):
		if mismatch.Actual > mismatch.Required {
			c.Emit(EventError, ErrorMessage{
				Message: fmt.Sprintf("Слишком много игроков. Максимум: %d", mismatch.Required),
			})
		} else {
			c.Emit(EventError, ErrorMessage{
				Message: fmt.Sprintf("Недостаточно игроков. Необходимо: %d", mismatch.Required),
			})
		}
	default:
		h.log.Error().Err(err).Msg("registry operation failed")
		c.Emit(EventError, ErrorMessage{Message: msgInternal})
	}
}
