package rooms

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"mafiaroom/internal/roles"
)

// Store owns every room. All mutation happens under one mutex, so each
// operation observes and leaves fully consistent state; at most one
// distribution can ever succeed per room.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
}

func NewStore() *Store {
	return NewStoreWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewStoreWithRand builds a store dealing from rng. Tests use it for
// reproducible shuffles.
func NewStoreWithRand(rng *rand.Rand) *Store {
	return &Store{
		rooms: make(map[string]*Room),
		rng:   rng,
	}
}

// Create registers a new room owned by hostID and returns its code together
// with the normalized settings.
func (s *Store) Create(hostID string, settings roles.Settings) (string, roles.Settings, error) {
	norm := settings.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return "", nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}
		s.rooms[code] = &Room{
			Code:     code,
			HostID:   hostID,
			Settings: norm,
		}
		return code, norm, nil
	}
	return "", nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

// JoinResult is the post-join membership view broadcast to the room.
type JoinResult struct {
	Player  PlayerInfo
	Players []PlayerInfo
}

// Join appends connID to the room's participant list. A blank name gets the
// positional default. Joining after distribution is allowed; such a
// participant simply never receives a role.
func (s *Store) Join(code, connID, playerName string) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	for _, p := range room.Participants {
		if p.ConnID == connID {
			return JoinResult{}, ErrAlreadyJoined
		}
	}

	if strings.TrimSpace(playerName) == "" {
		playerName = fmt.Sprintf("Игрок %d", len(room.Participants)+1)
	}
	room.Participants = append(room.Participants, &Participant{
		ConnID: connID,
		Name:   playerName,
	})

	return JoinResult{
		Player:  PlayerInfo{PlayerName: playerName, SocketID: connID},
		Players: room.playerList(),
	}, nil
}

// DistributeResult carries everything fanned out after a successful deal.
type DistributeResult struct {
	HostID  string
	Players []PlayerRole
}

// Distribute deals roles to the room's participants in join order. Only the
// host may call it, only once, and only when the participant count matches
// the settings total; on any failure no participant's role is touched.
func (s *Store) Distribute(code, connID string) (DistributeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return DistributeResult{}, ErrRoomNotFound
	}
	if room.HostID != connID {
		return DistributeResult{}, ErrNotHost
	}
	if room.RolesDistributed {
		return DistributeResult{}, ErrAlreadyDistributed
	}

	deck, err := roles.Deal(room.Settings, len(room.Participants), s.rng)
	if err != nil {
		return DistributeResult{}, err
	}
	for i, p := range room.Participants {
		p.Role = deck[i]
	}
	room.RolesDistributed = true

	return DistributeResult{
		HostID:  room.HostID,
		Players: room.roleList(),
	}, nil
}

// Snapshot is the host's view of a room.
type Snapshot struct {
	Code             string
	Settings         roles.Settings
	Players          []PlayerRole
	RolesDistributed bool
}

// Info returns the room snapshot for its host. Anyone else gets ErrNotHost.
func (s *Store) Info(code, connID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	if room.HostID != connID {
		return Snapshot{}, ErrNotHost
	}
	return Snapshot{
		Code:             room.Code,
		Settings:         room.Settings.Normalize(),
		Players:          room.roleList(),
		RolesDistributed: room.RolesDistributed,
	}, nil
}

// Departure reports what happened to one room when a connection went away.
type Departure struct {
	RoomCode string
	// HostLeft means the room was closed and removed from the store.
	HostLeft bool
	SocketID string
	// Players is the remaining membership; nil when HostLeft.
	Players []PlayerInfo
}

// RemoveConnection purges connID from every room. A room whose host
// disconnects is deleted outright; the host is never additionally reported
// as a departing participant of that room.
func (s *Store) RemoveConnection(connID string) []Departure {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Departure
	for code, room := range s.rooms {
		if room.HostID == connID {
			delete(s.rooms, code)
			out = append(out, Departure{RoomCode: code, HostLeft: true, SocketID: connID})
			continue
		}

		idx := -1
		for i, p := range room.Participants {
			if p.ConnID == connID {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}
		room.Participants = append(room.Participants[:idx], room.Participants[idx+1:]...)
		out = append(out, Departure{
			RoomCode: code,
			SocketID: connID,
			Players:  room.playerList(),
		})
	}
	return out
}

// Len reports the number of open rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
