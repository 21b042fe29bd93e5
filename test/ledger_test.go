//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/progress"
)

type toggleResponse struct {
	IsCompleted   bool `json:"is_completed"`
	PointsAwarded int  `json:"points_awarded"`
	Points        int  `json:"points"`
}

type completeResponse struct {
	AlreadyCounted bool `json:"already_counted"`
	TotalWorkouts  int  `json:"total_workouts"`
	Points         int  `json:"points"`
}

type logResponse struct {
	ID            int64 `json:"id"`
	PointsAwarded bool  `json:"points_awarded"`
	Points        int   `json:"points"`
}

func (s *IntegrationTestSuite) generateWorkout(ctx context.Context, token string) plans.PlanView {
	var view plans.PlanView
	s.doJSON(ctx, "POST", "/api/workouts/generate", token, map[string]any{"days": 3}, http.StatusCreated, &view)
	s.Require().NotEmpty(view.Items)
	return view
}

func (s *IntegrationTestSuite) TestLedger_ToggleIsAwardedOnce() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	account := s.registerAccount(ctx)
	view := s.generateWorkout(ctx, account.token)
	key := view.Items[0].Key

	var toggled toggleResponse
	s.doJSON(ctx, "POST", "/api/workouts/toggle-exercise", account.token, map[string]any{"exercise_key": key}, http.StatusOK, &toggled)
	assert.True(t, toggled.IsCompleted)
	assert.Equal(t, 10, toggled.PointsAwarded)
	assert.Equal(t, 10, toggled.Points)

	s.doJSON(ctx, "POST", "/api/workouts/toggle-exercise", account.token, map[string]any{"exercise_key": key}, http.StatusOK, &toggled)
	assert.False(t, toggled.IsCompleted)
	assert.Equal(t, 10, toggled.Points)

	s.doJSON(ctx, "POST", "/api/workouts/toggle-exercise", account.token, map[string]any{"exercise_key": key}, http.StatusOK, &toggled)
	assert.True(t, toggled.IsCompleted)
	assert.Equal(t, 0, toggled.PointsAwarded)
	assert.Equal(t, 10, toggled.Points)

	var completed struct {
		Exercises map[string]bool `json:"completed_exercises"`
	}
	s.doJSON(ctx, "GET", "/api/workouts/completed", account.token, nil, http.StatusOK, &completed)
	assert.True(t, completed.Exercises[key])

	status, _ := s.doRequest(ctx, "POST", "/api/workouts/toggle-exercise", account.token, map[string]any{"exercise_key": "9|exercise|Nope"})
	assert.Equal(t, http.StatusBadRequest, status)

	assert.Equal(t, 10, s.me(ctx, account.token).Points)
}

func (s *IntegrationTestSuite) TestLedger_NoActivePlan() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	account := s.registerAccount(ctx)
	status, _ := s.doRequest(ctx, "POST", "/api/workouts/toggle-exercise", account.token, map[string]any{"exercise_key": "1|exercise|Squats"})
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestLedger_ConcurrentCompletionsCountOnce() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	account := s.registerAccount(ctx)
	view := s.generateWorkout(ctx, account.token)
	key := view.Items[1].Key

	const workers = 8
	results := make([]completeResponse, workers)
	statuses := make([]int, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status, body, err := s.send(ctx, "POST", "/api/workouts/complete-exercise", account.token, map[string]any{
				"exercise_key":    key,
				"calories_burned": 35,
			})
			statuses[i], errs[i] = status, err
			if err == nil && status == http.StatusOK {
				errs[i] = json.Unmarshal(body, &results[i])
			}
		}(i)
	}
	wg.Wait()

	counted := 0
	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, http.StatusOK, statuses[i])
		if !results[i].AlreadyCounted {
			counted++
		}
	}
	assert.Equal(t, 1, counted)

	me := s.me(ctx, account.token)
	assert.Equal(t, 10, me.Points)
	assert.Equal(t, 1, me.ActivityCount)

	var records int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM progress_record WHERE user_id = $1`, account.user.ID,
	).Scan(&records))
	assert.Equal(t, 1, records)
}

func (s *IntegrationTestSuite) TestLedger_ManualProgressAwardsOncePerDay() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	account := s.registerAccount(ctx)

	var logged logResponse
	s.doJSON(ctx, "POST", "/api/progress/log", account.token, map[string]any{"calories_burned": 300, "weight": 72.5}, http.StatusCreated, &logged)
	assert.True(t, logged.PointsAwarded)
	assert.Equal(t, 5, logged.Points)

	s.doJSON(ctx, "POST", "/api/progress/log", account.token, map[string]any{"calories_burned": 100}, http.StatusCreated, &logged)
	assert.False(t, logged.PointsAwarded)
	assert.Equal(t, 5, logged.Points)

	status, _ := s.doRequest(ctx, "POST", "/api/progress/log", account.token, map[string]any{"calories_burned": -5})
	assert.Equal(t, http.StatusBadRequest, status)

	var stats progress.Stats
	s.doJSON(ctx, "GET", "/api/progress/stats", account.token, nil, http.StatusOK, &stats)
	assert.Equal(t, 400, stats.TotalCaloriesBurned)
	assert.Equal(t, 400, stats.ManualCalories)
	assert.Equal(t, 5, stats.Points)
}
