// Package session holds in-progress conversation state between messages:
// the profile wizard's partial answers and a pending food entry waiting for
// its gram amount. One session per user; starting a new flow replaces it.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the user has no active session.
var ErrNotFound = errors.New("session: not found")

// Step is the conversation state the next incoming message is routed by.
type Step string

const (
	StepWeight        Step = "weight"
	StepHeight        Step = "height"
	StepAge           Step = "age"
	StepGender        Step = "gender"
	StepActivity      Step = "activity"
	StepCity          Step = "city"
	StepCalorieChoice Step = "calorie_choice"
	StepCustomCalorie Step = "custom_calorie"
	StepFoodGrams     Step = "food_grams"
)

// PendingFood is a looked-up food item waiting for the amount eaten.
type PendingFood struct {
	Name            string  `json:"name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	Glyph           string  `json:"glyph"`
}

// Session is the per-user attribute bag accumulated across steps. The two
// Computed fields are stashed at the city step so the calorie-choice branch
// can finalize without recomputing.
type Session struct {
	Step Step `json:"step"`

	WeightKg        float64 `json:"weight,omitempty"`
	HeightCm        float64 `json:"height,omitempty"`
	Age             int     `json:"age,omitempty"`
	Gender          string  `json:"gender,omitempty"`
	ActivityMinutes int     `json:"activity_minutes,omitempty"`
	City            string  `json:"city,omitempty"`

	ComputedWaterGoal   int     `json:"water_goal,omitempty"`
	ComputedCalorieGoal float64 `json:"calorie_goal,omitempty"`

	Food *PendingFood `json:"food,omitempty"`
}

// Store is the keyed session store. Put overwrites, Delete is a no-op for
// missing keys.
type Store interface {
	Get(ctx context.Context, userID uint64) (*Session, error)
	Put(ctx context.Context, userID uint64, s *Session) error
	Delete(ctx context.Context, userID uint64) error
}

// MemoryStore keeps sessions in process memory. Default when no redis is
// configured, and the fixture for tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uint64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uint64]Session)}
}

func (m *MemoryStore) Get(ctx context.Context, userID uint64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy out so callers can mutate freely and drop their changes.
	return s.clone(), nil
}

func (m *MemoryStore) Put(ctx context.Context, userID uint64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = *s.clone()
	return nil
}

func (s *Session) clone() *Session {
	cp := *s
	if s.Food != nil {
		f := *s.Food
		cp.Food = &f
	}
	return &cp
}

func (m *MemoryStore) Delete(ctx context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
