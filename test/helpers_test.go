//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/yash81300/arogyamitra/internal/users"
)

type testAccount struct {
	user     users.User
	password string
	token    string
}

// send does not touch the suite's T, so it is safe to call from goroutines.
func (s *IntegrationTestSuite) send(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", "integration-test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBytes, err
}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, token string, body any) (int, []byte) {
	status, respBytes, err := s.send(ctx, method, path, token, body)
	require.NoError(s.T(), err)
	return status, respBytes
}

func (s *IntegrationTestSuite) doJSON(ctx context.Context, method, path, token string, body any, expectedStatus int, v any) {
	t := s.T()
	status, respBytes := s.doRequest(ctx, method, path, token, body)
	require.Equal(t, expectedStatus, status, string(respBytes))
	if v != nil {
		require.NoError(t, json.Unmarshal(respBytes, v), string(respBytes))
	}
}

func (s *IntegrationTestSuite) registerAccount(ctx context.Context) *testAccount {
	username := fmt.Sprintf("%s_%d", strings.ToLower(gofakeit.Username()), time.Now().UnixNano())
	password := gofakeit.Password(true, true, true, false, false, 12)

	var resp users.AuthResponse
	s.doJSON(ctx, "POST", "/api/auth/register", "", map[string]any{
		"email":              username + "@" + gofakeit.DomainName(),
		"username":           username,
		"password":           password,
		"full_name":          gofakeit.Name(),
		"fitness_level":      "beginner",
		"fitness_goal":       "weight_loss",
		"workout_preference": "home",
		"diet_preference":    "vegetarian",
	}, http.StatusCreated, &resp)

	s.Require().NotEmpty(resp.AccessToken)
	s.Require().NotNil(resp.User)

	return &testAccount{
		user:     *resp.User,
		password: password,
		token:    resp.AccessToken,
	}
}

func (s *IntegrationTestSuite) me(ctx context.Context, token string) users.User {
	var u users.User
	s.doJSON(ctx, "GET", "/api/auth/me", token, nil, http.StatusOK, &u)
	return u
}
