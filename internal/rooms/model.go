package rooms

import "mafiaroom/internal/roles"

// Room is the authoritative record for one game session. Only the Store
// mutates it; everything handed out of the Store is a snapshot.
type Room struct {
	Code             string
	HostID           string
	Settings         roles.Settings
	Participants     []*Participant
	RolesDistributed bool
}

// Participant is one joined connection, identified by its connection id.
// Role stays empty until the host distributes, then never changes.
type Participant struct {
	ConnID string
	Name   string
	Role   roles.Kind
}

// PlayerInfo is the denormalized participant view broadcast to the room.
type PlayerInfo struct {
	PlayerName string `json:"playerName"`
	SocketID   string `json:"socketId"`
	HasRole    bool   `json:"hasRole"`
}

// PlayerRole pairs a participant with the role dealt to it. The host sees
// the full list; each participant sees only its own entry.
type PlayerRole struct {
	PlayerName string     `json:"playerName"`
	SocketID   string     `json:"socketId"`
	Role       roles.Kind `json:"role"`
}

// playerList snapshots the current membership. Callers must hold the Store
// mutex.
func (r *Room) playerList() []PlayerInfo {
	out := make([]PlayerInfo, len(r.Participants))
	for i, p := range r.Participants {
		out[i] = PlayerInfo{
			PlayerName: p.Name,
			SocketID:   p.ConnID,
			HasRole:    p.Role != "",
		}
	}
	return out
}

// roleList snapshots membership with assigned roles. Callers must hold the
// Store mutex.
func (r *Room) roleList() []PlayerRole {
	out := make([]PlayerRole, len(r.Participants))
	for i, p := range r.Participants {
		out[i] = PlayerRole{
			PlayerName: p.Name,
			SocketID:   p.ConnID,
			Role:       p.Role,
		}
	}
	return out
}
