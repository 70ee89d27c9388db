package roles

import (
	"fmt"
	"math/rand/v2"
)

// CountMismatchError reports a deal attempted with a player count that does
// not match the total the settings require.
type CountMismatchError struct {
	Required int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("role count mismatch: settings require %d players, have %d", e.Required, e.Actual)
}

// Deal builds the role multiset described by settings and returns it in
// uniformly random order: position i of the result is the role for the
// player who joined i-th. The player count must exactly match the settings
// total; there is no truncation or padding.
//
// Deal mutates nothing outside its return value and is deterministic given
// rng, so callers control reproducibility.
func Deal(s Settings, playerCount int, rng *rand.Rand) ([]Kind, error) {
	s = s.Normalize()
	if total := s.Total(); total != playerCount {
		return nil, &CountMismatchError{Required: total, Actual: playerCount}
	}

	deck := make([]Kind, 0, playerCount)
	for _, k := range Kinds() {
		for range s[k] {
			deck = append(deck, k)
		}
	}

	// Fisher-Yates via rand.Shuffle: every permutation of positions is
	// equally likely.
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck, nil
}
