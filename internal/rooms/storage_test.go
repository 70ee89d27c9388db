package rooms

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"mafiaroom/internal/roles"
)

func testStore() *Store {
	return NewStoreWithRand(rand.New(rand.NewPCG(1, 2)))
}

func threeSeats() roles.Settings {
	return roles.Settings{roles.Mafia: 1, roles.Commissar: 1, roles.Citizen: 1}
}

func TestCreate(t *testing.T) {
	s := testStore()

	code, settings, err := s.Create("host-1", roles.Settings{roles.Mafia: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 6 {
		t.Errorf("code = %q, want 6 characters", code)
	}
	if settings[roles.Mafia] != 2 {
		t.Errorf("settings[mafia] = %d, want 2", settings[roles.Mafia])
	}
	// Missing kinds are normalized to explicit zeros
	for _, k := range []roles.Kind{roles.Don, roles.Doctor, roles.Killer, roles.Citizen, roles.Commissar} {
		if c, ok := settings[k]; !ok || c != 0 {
			t.Errorf("settings[%s] = %d (present=%v), want explicit 0", k, c, ok)
		}
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestCreate_ConcurrentUniqueCodes(t *testing.T) {
	s := testStore()

	codes := make([]string, 50)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _, err := s.Create("host", roles.Settings{})
			if err != nil {
				t.Error(err)
				return
			}
			codes[i] = code
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate room code %q", c)
		}
		seen[c] = true
	}
	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}

func TestJoin_RoomNotFound(t *testing.T) {
	s := testStore()

	_, err := s.Join("ZZZZZZ", "conn-1", "Alice")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestJoin_AppendsInOrder(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())

	s.Join(code, "conn-a", "Alice")
	res, err := s.Join(code, "conn-b", "Bob")
	if err != nil {
		t.Fatal(err)
	}

	if res.Player.SocketID != "conn-b" || res.Player.PlayerName != "Bob" {
		t.Errorf("Player = %+v", res.Player)
	}
	if len(res.Players) != 2 {
		t.Fatalf("len(Players) = %d, want 2", len(res.Players))
	}
	if res.Players[0].SocketID != "conn-a" || res.Players[1].SocketID != "conn-b" {
		t.Errorf("join order not preserved: %+v", res.Players)
	}
	if res.Players[0].HasRole || res.Players[1].HasRole {
		t.Error("no one should have a role before distribution")
	}
}

func TestJoin_AlreadyJoined(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "Alice")

	_, err := s.Join(code, "conn-a", "Alice again")
	if !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("err = %v, want ErrAlreadyJoined", err)
	}

	// Participant count unchanged
	res, _ := s.Join(code, "conn-b", "Bob")
	if len(res.Players) != 2 {
		t.Errorf("len(Players) = %d, want 2", len(res.Players))
	}
}

func TestJoin_BlankNameGetsPositionalDefault(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())

	first, _ := s.Join(code, "conn-a", "")
	second, _ := s.Join(code, "conn-b", "   ")

	if first.Player.PlayerName != "Игрок 1" {
		t.Errorf("first name = %q, want %q", first.Player.PlayerName, "Игрок 1")
	}
	if second.Player.PlayerName != "Игрок 2" {
		t.Errorf("second name = %q, want %q", second.Player.PlayerName, "Игрок 2")
	}
}

func TestDistribute_Success(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")
	s.Join(code, "conn-b", "B")
	s.Join(code, "conn-c", "C")

	res, err := s.Distribute(code, "host-1")
	if err != nil {
		t.Fatal(err)
	}
	if res.HostID != "host-1" {
		t.Errorf("HostID = %q, want host-1", res.HostID)
	}
	if len(res.Players) != 3 {
		t.Fatalf("len(Players) = %d, want 3", len(res.Players))
	}

	counts := make(map[roles.Kind]int)
	for _, p := range res.Players {
		if p.Role == "" {
			t.Errorf("participant %s has no role", p.SocketID)
		}
		counts[p.Role]++
	}
	for _, k := range []roles.Kind{roles.Mafia, roles.Commissar, roles.Citizen} {
		if counts[k] != 1 {
			t.Errorf("role %s dealt %d times, want 1", k, counts[k])
		}
	}
}

func TestDistribute_SecondCallFails(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")
	s.Join(code, "conn-b", "B")
	s.Join(code, "conn-c", "C")

	if _, err := s.Distribute(code, "host-1"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Distribute(code, "host-1")
	if !errors.Is(err, ErrAlreadyDistributed) {
		t.Errorf("err = %v, want ErrAlreadyDistributed", err)
	}
}

func TestDistribute_NotHost(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")
	s.Join(code, "conn-b", "B")
	s.Join(code, "conn-c", "C")

	_, err := s.Distribute(code, "conn-a")
	if !errors.Is(err, ErrNotHost) {
		t.Fatalf("err = %v, want ErrNotHost", err)
	}

	// Room state untouched: the host can still distribute
	if _, err := s.Distribute(code, "host-1"); err != nil {
		t.Errorf("host distribution after rejected attempt failed: %v", err)
	}
}

func TestDistribute_CountMismatchLeavesRolesUnset(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")

	_, err := s.Distribute(code, "host-1")

	var mismatch *roles.CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want CountMismatchError", err)
	}
	if mismatch.Required != 3 || mismatch.Actual != 1 {
		t.Errorf("mismatch = %+v, want Required=3 Actual=1", mismatch)
	}

	snap, _ := s.Info(code, "host-1")
	if snap.RolesDistributed {
		t.Error("RolesDistributed must stay false after a failed deal")
	}
	for _, p := range snap.Players {
		if p.Role != "" {
			t.Errorf("participant %s got role %q from a failed deal", p.SocketID, p.Role)
		}
	}
}

func TestDistribute_RoomNotFound(t *testing.T) {
	s := testStore()

	_, err := s.Distribute("ZZZZZZ", "host-1")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestJoin_AfterDistributionStaysRoleless(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")
	s.Join(code, "conn-b", "B")
	s.Join(code, "conn-c", "C")
	s.Distribute(code, "host-1")

	res, err := s.Join(code, "conn-late", "Latecomer")
	if err != nil {
		t.Fatal(err)
	}
	last := res.Players[len(res.Players)-1]
	if last.SocketID != "conn-late" || last.HasRole {
		t.Errorf("late joiner = %+v, want role-less conn-late", last)
	}

	// And a second distribution still refuses to run
	_, err = s.Distribute(code, "host-1")
	if !errors.Is(err, ErrAlreadyDistributed) {
		t.Errorf("err = %v, want ErrAlreadyDistributed", err)
	}
}

func TestInfo_HostOnly(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")

	snap, err := s.Info(code, "host-1")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Code != code || len(snap.Players) != 1 || snap.RolesDistributed {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, err := s.Info(code, "conn-a"); !errors.Is(err, ErrNotHost) {
		t.Errorf("err = %v, want ErrNotHost", err)
	}
	if _, err := s.Info("ZZZZZZ", "host-1"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestRemoveConnection_Participant(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")
	s.Join(code, "conn-b", "B")

	deps := s.RemoveConnection("conn-a")
	if len(deps) != 1 {
		t.Fatalf("len(deps) = %d, want 1", len(deps))
	}
	d := deps[0]
	if d.HostLeft || d.RoomCode != code || d.SocketID != "conn-a" {
		t.Errorf("departure = %+v", d)
	}
	if len(d.Players) != 1 || d.Players[0].SocketID != "conn-b" {
		t.Errorf("remaining players = %+v, want just conn-b", d.Players)
	}
	if s.Len() != 1 {
		t.Error("room should survive a participant leaving")
	}
}

func TestRemoveConnection_HostClosesRoom(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "conn-a", "A")

	deps := s.RemoveConnection("host-1")
	if len(deps) != 1 {
		t.Fatalf("len(deps) = %d, want 1", len(deps))
	}
	if !deps[0].HostLeft || deps[0].RoomCode != code {
		t.Errorf("departure = %+v, want HostLeft for %s", deps[0], code)
	}
	if _, err := s.Join(code, "conn-b", "B"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("room still joinable after host left: %v", err)
	}
}

// A host that also joined its own room as a player produces exactly one
// closure, never an extra participant departure for the same room.
func TestRemoveConnection_HostPrecedence(t *testing.T) {
	s := testStore()
	code, _, _ := s.Create("host-1", threeSeats())
	s.Join(code, "host-1", "Ведущий")
	s.Join(code, "conn-a", "A")

	deps := s.RemoveConnection("host-1")
	if len(deps) != 1 {
		t.Fatalf("len(deps) = %d, want 1", len(deps))
	}
	if !deps[0].HostLeft {
		t.Errorf("departure = %+v, want HostLeft", deps[0])
	}
}

func TestRemoveConnection_AcrossRooms(t *testing.T) {
	s := testStore()
	hosted, _, _ := s.Create("conn-x", threeSeats())
	other, _, _ := s.Create("host-2", threeSeats())
	s.Join(other, "conn-x", "X")

	deps := s.RemoveConnection("conn-x")
	if len(deps) != 2 {
		t.Fatalf("len(deps) = %d, want 2", len(deps))
	}
	byRoom := make(map[string]Departure)
	for _, d := range deps {
		byRoom[d.RoomCode] = d
	}
	if !byRoom[hosted].HostLeft {
		t.Errorf("hosted room departure = %+v, want HostLeft", byRoom[hosted])
	}
	if byRoom[other].HostLeft {
		t.Errorf("other room departure = %+v, want participant departure", byRoom[other])
	}
}

func TestRemoveConnection_Unknown(t *testing.T) {
	s := testStore()
	s.Create("host-1", threeSeats())

	if deps := s.RemoveConnection("nobody"); len(deps) != 0 {
		t.Errorf("deps = %+v, want none", deps)
	}
}
