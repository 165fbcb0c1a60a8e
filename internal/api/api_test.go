package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readraise/insights/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Bootstrap(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	srv := httptest.NewServer(NewRouter(sqlite.NewWithDB(db)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_UserLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/users", map[string]any{
		"userId": "u1", "email": "u1@example.test", "cefrLevel": "B1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	assert.Equal(t, "u1", created["userId"])
	assert.Equal(t, float64(1), created["level"])

	resp, err := http.Get(srv.URL + "/api/users/u1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	assert.Equal(t, "u1@example.test", got["email"])

	resp, err = http.Get(srv.URL + "/api/users/ghost")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateUser_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/users", map[string]any{"userId": "u1"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_XPAndVelocity(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/users", map[string]any{
		"userId": "u1", "email": "u1@example.test", "cefrLevel": "B1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	for d := 1; d <= 3; d++ {
		resp = postJSON(t, srv.URL+"/api/xp", map[string]any{
			"userId": "u1", "xpEarned": 100, "activityType": "article",
			"occurredAt": time.Now().UTC().AddDate(0, 0, -d).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/users/u1/velocity")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	assert.Equal(t, float64(300), got["xpLast7d"])
	assert.Equal(t, float64(3), got["activeDays7d"])
	assert.Equal(t, "medium", got["confidenceBand"])
	cache, ok := got["cache"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, cache["cached"])

	resp, err = http.Get(srv.URL + "/api/users/ghost/velocity")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ReadsAndGenres(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/users", map[string]any{
		"userId": "u1", "email": "u1@example.test", "cefrLevel": "B1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/articles", map[string]any{
		"title": "Dragon Keep", "genre": "fantasy", "cefrLevel": "B1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	art := decode(t, resp)
	articleID, _ := art["articleId"].(string)
	require.NotEmpty(t, articleID)

	resp = postJSON(t, srv.URL+"/api/reads", map[string]any{
		"userId": "u1", "articleId": articleID, "mcqCompleted": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	read := decode(t, resp)
	assert.Equal(t, "fantasy", read["genre"])

	resp, err := http.Get(srv.URL + "/api/users/u1/genres")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	genres, ok := got["genres"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, genres)
	top, _ := genres[0].(map[string]any)
	assert.Equal(t, "fantasy", top["genre"])
}

func TestAPI_DashboardWindows(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"activity", "cards", "heatmap", "assignments", "summary"} {
		resp, err := http.Get(fmt.Sprintf("%s/api/dashboard/%s?days=7", srv.URL, path))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		_ = resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/dashboard/activity?days=banana")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DashboardSummaryShape(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/dashboard/summary?days=all")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	require.Contains(t, got, "cards")
	require.Contains(t, got, "activity")
	require.Contains(t, got, "heatmap")
	cache, ok := got["cache"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, cache["cached"])
}

func TestAPI_AssignmentStatusFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/assignments", map[string]any{
		"classroomId": "c1", "title": "Week 2 reading",
		"dueDate": time.Now().UTC().AddDate(0, 0, 3).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	asg := decode(t, resp)
	id, _ := asg["assignmentId"].(string)
	require.NotEmpty(t, id)

	body, _ := json.Marshal(map[string]any{"userId": "u1", "status": "completed", "score": 88.0})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/assignments/"+id+"/status", bytes.NewReader(body))
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	assert.Contains(t, []any{"healthy", "unhealthy"}, got["status"])

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
