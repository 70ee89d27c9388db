package protocol

import (
	"mafiaroom/internal/roles"
	"mafiaroom/internal/rooms"
)

// Client-to-server event names.
const (
	EventCreateRoom      = "create-room"
	EventJoinRoom        = "join-room"
	EventDistributeRoles = "distribute-roles"
	EventGetRoomInfo     = "get-room-info"
)

// Server-to-client event names.
const (
	EventRoomCreated         = "room-created"
	EventPlayerJoined        = "player-joined"
	EventRoleAssigned        = "role-assigned"
	EventRolesDistributed    = "roles-distributed"
	EventAllRolesDistributed = "all-roles-distributed"
	EventRoomInfo            = "room-info"
	EventPlayerLeft          = "player-left"
	EventRoomClosed          = "room-closed"
	EventError               = "error"
)

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// RoomRequest is the shared shape of distribute-roles and get-room-info.
type RoomRequest struct {
	RoomID string `json:"roomId"`
}

type RoomCreated struct {
	RoomID string `json:"roomId"`
	HostID string `json:"hostId"`
}

type PlayerJoined struct {
	Player  rooms.PlayerInfo   `json:"player"`
	Players []rooms.PlayerInfo `json:"players"`
}

type RoleAssigned struct {
	Role       roles.Kind `json:"role"`
	PlayerName string     `json:"playerName"`
}

type RolesDistributed struct {
	Players []rooms.PlayerRole `json:"players"`
}

type AllRolesDistributed struct {
	PlayerCount int `json:"playerCount"`
}

type RoomInfo struct {
	RoomID           string             `json:"roomId"`
	Settings         roles.Settings     `json:"settings"`
	Players          []rooms.PlayerRole `json:"players"`
	RolesDistributed bool               `json:"rolesDistributed"`
}

type PlayerLeft struct {
	SocketID string             `json:"socketId"`
	Players  []rooms.PlayerInfo `json:"players"`
}

type RoomClosed struct {
	Message string `json:"message"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
