package game

import (
	"encoding/json"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"
)

// Source is the randomness provider for dice rolls and AI percentage
// draws. Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n must be > 0.
	Intn(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// NewSource returns the default wall-clock seeded source.
func NewSource() Source {
	return &lockedSource{r: mathrand.New(mathrand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSource returns a replicable source for tests and simulations.
func NewSeededSource(seed int64) Source {
	return &lockedSource{r: mathrand.New(mathrand.NewSource(seed))}
}

// Roll is one shared two-die draw. The zero value means "no roll yet".
type Roll struct {
	First  int
	Second int
}

// RollDice draws two independent uniform dice from src.
func RollDice(src Source) Roll {
	return Roll{
		First:  src.Intn(DieFaces) + 1,
		Second: src.Intn(DieFaces) + 1,
	}
}

func (r Roll) Sum() int { return r.First + r.Second }

func (r Roll) IsDouble() bool { return r.First == r.Second }

// IsDisaster reports whether the roll destroys the invested portion.
// A double summing to seven is impossible, so the disaster and double
// outcomes never collide; the disaster check still runs first because
// it is the loss condition.
func (r Roll) IsDisaster() bool { return r.Sum() == DisasterSum }

func (r Roll) IsZero() bool { return r.First == 0 && r.Second == 0 }

// Outcome describes the roll the way it is shown to players.
func (r Roll) Outcome() string {
	if r.IsDisaster() {
		return "Crops destroyed! All invested money lost"
	}
	if r.IsDouble() {
		return "Double! Investment doubled"
	}
	return fmt.Sprintf("Investment increased by %d%%", r.Sum()*3)
}

// MarshalJSON renders the roll as a two-element array, or an empty
// array before any round has resolved.
func (r Roll) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("[]"), nil
	}
	return json.Marshal([2]int{r.First, r.Second})
}

func (r *Roll) UnmarshalJSON(data []byte) error {
	var faces []int
	if err := json.Unmarshal(data, &faces); err != nil {
		return err
	}
	switch len(faces) {
	case 0:
		*r = Roll{}
		return nil
	case 2:
		*r = Roll{First: faces[0], Second: faces[1]}
		return nil
	default:
		return fmt.Errorf("roll must have exactly two dice, got %d", len(faces))
	}
}
