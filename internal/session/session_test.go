package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	s := &Session{Step: StepHeight, WeightKg: 70.5}
	require.NoError(t, st.Put(ctx, 1, s))

	got, err := st.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StepHeight, got.Step)
	assert.Equal(t, 70.5, got.WeightKg)

	require.NoError(t, st.Delete(ctx, 1))
	_, err = st.Get(ctx, 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting an absent session must not error.
	assert.NoError(t, st.Delete(ctx, 1))
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	s := &Session{Step: StepFoodGrams, Food: &PendingFood{Name: "банан", CaloriesPer100g: 89}}
	require.NoError(t, st.Put(ctx, 7, s))

	// Mutating the caller's copy must not reach the stored value.
	s.Food.CaloriesPer100g = 999
	s.Step = StepWeight

	got, err := st.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, StepFoodGrams, got.Step)
	assert.Equal(t, 89.0, got.Food.CaloriesPer100g)

	// And mutating the returned copy must not change the store either.
	got.Food.Name = "apple"
	again, err := st.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "банан", again.Food.Name)
}

func TestSessionJSONCodec(t *testing.T) {
	s := &Session{
		Step:                StepCalorieChoice,
		WeightKg:            70,
		HeightCm:            175,
		Age:                 25,
		Gender:              "male",
		ActivityMinutes:     30,
		City:                "Moscow",
		ComputedWaterGoal:   2600,
		ComputedCalorieGoal: 2729.9,
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back Session
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, *s, back)
}
