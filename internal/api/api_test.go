package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crystalclicker/internal/api/apierr"
	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/api/response"
	"github.com/mcoot/crystalclicker/internal/factory"
)

// testServer wraps the router of a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	app := factory.NewTestApp()
	return &testServer{handler: app.Router(), app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, username string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players/register",
		map[string]string{"username": username, "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) save(t *testing.T, token string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request(http.MethodPut, "/api/v1/game", body, token)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}

func saveBody(currency int64) map[string]any {
	return map[string]any{
		"currency":          currency,
		"lifetime_currency": currency,
		"click_power":       2,
		"click_power_price": 40,
		"total_clicks":      250,
		"producers": map[string]any{
			"autoclicker": map[string]int64{"count": 4, "price": 9},
			"factory":     map[string]int64{"count": 1, "price": 60},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registered := ts.register(t, "alice")
	assert.Equal(t, "alice", registered.Player.Username)
	assert.NotEmpty(t, registered.SessionToken)

	rr := ts.request(http.MethodPost, "/api/v1/players/login",
		map[string]string{"username": "alice", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	assert.Equal(t, registered.Player.ID, loginResp.Player.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/players/register",
		map[string]string{"username": "alice", "password": "other"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, decodeError(t, rr).Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/register",
		map[string]string{"username": "", "password": "secret123"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/register",
		map[string]string{"username": "alice", "password": ""}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/players/login",
		map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/login",
		map[string]string{"username": "nobody", "password": "wrong"}, "")
	assert.Equal(t, apierr.CodeInvalidCredentials, decodeError(t, rr).Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var me response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "bob", me.Username)
	assert.Equal(t, auth.Player.ID, me.ID)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/players/me"},
		{http.MethodGet, "/api/v1/game"},
		{http.MethodPut, "/api/v1/game"},
		{http.MethodPost, "/api/v1/rebirth"},
		{http.MethodPost, "/api/v1/rewards/mystery-box"},
	} {
		rr := ts.request(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/game", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSaveAndLoadGame(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "carol")

	rr := ts.save(t, auth.SessionToken, saveBody(5_000))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/game", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var state response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, int64(5_000), state.Currency)
	assert.Equal(t, int64(2), state.ClickPower)
	assert.Equal(t, int64(250), state.TotalClicks)
	assert.Equal(t, response.Producer{Count: 4, Price: 9}, state.Producers["autoclicker"])
	assert.Equal(t, response.Producer{Count: 0, Price: 500}, state.Producers["mine"])
	assert.Len(t, state.Producers, 9)
	assert.Nil(t, state.LastLuckBonusAt)

	// Credentials never leave the server
	assert.NotContains(t, rr.Body.String(), "$2a$")
	assert.NotContains(t, rr.Body.String(), "credential")
}

func TestSaveRejectsBadSnapshots(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "dave")

	body := saveBody(100)
	body["producers"] = map[string]any{"time_machine": map[string]int64{"count": 1, "price": 1}}
	rr := ts.save(t, auth.SessionToken, body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body = saveBody(-1)
	rr = ts.save(t, auth.SessionToken, body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPut, "/api/v1/game", "not an object", auth.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRebirthFlow(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "erin")

	// Not enough crystals yet
	ts.save(t, auth.SessionToken, saveBody(99_999))
	rr := ts.request(http.MethodPost, "/api/v1/rebirth", nil, auth.SessionToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeInsufficientCurrency, apiErr.Code)
	assert.Contains(t, apiErr.Message, "100000")

	ts.save(t, auth.SessionToken, saveBody(1_000_000))
	rr = ts.request(http.MethodPost, "/api/v1/rebirth", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result response.Rebirth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, int64(1), result.RebirthCount)
	// floor(log10(1e6) + 1e6/1e6) = 7
	assert.Equal(t, int64(7), result.GainedPoints)

	rr = ts.request(http.MethodGet, "/api/v1/game", nil, auth.SessionToken)
	var state response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Zero(t, state.Currency)
	assert.Equal(t, int64(1), state.ClickPower)
	assert.Zero(t, state.Producers["autoclicker"].Count)
	assert.Equal(t, int64(5), state.Producers["autoclicker"].Price)
}

func TestRebirthUpgrades(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "frank")

	rr := ts.request(http.MethodPost, "/api/v1/rebirth/upgrades", map[string]string{"kind": "speed"}, auth.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidKind, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rebirth/upgrades", map[string]string{"kind": "click"}, auth.SessionToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeInsufficientPoints, decodeError(t, rr).Code)

	// 1e7 crystals: floor(7 + 10) = 17 points
	ts.save(t, auth.SessionToken, saveBody(10_000_000))
	rr = ts.request(http.MethodPost, "/api/v1/rebirth", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rebirth/upgrades", map[string]string{"kind": "production"}, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var upgrade response.Upgrade
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &upgrade))
	assert.Equal(t, "production", upgrade.Kind)
	assert.Equal(t, int64(100), upgrade.NewValue)
	assert.Equal(t, int64(7), upgrade.RemainingPoints)
}

func TestRewards(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "gina")

	rr := ts.request(http.MethodPost, "/api/v1/rewards/mystery-box", nil, auth.SessionToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoBoxesAvailable, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rewards/luck-bonus", nil, auth.SessionToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoLuckLevel, decodeError(t, rr).Code)

	// The mock random always wins the luck roll on rebirth
	ts.save(t, auth.SessionToken, saveBody(100_000))
	rr = ts.request(http.MethodPost, "/api/v1/rebirth", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rewards/luck-bonus", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var bonus response.Bonus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bonus))
	assert.Equal(t, int64(150), bonus.TotalBonus)
	assert.True(t, bonus.BoxGranted)
	assert.Equal(t, ts.app.MockClock.Now().Add(time.Hour), bonus.NextClaimAt)

	rr = ts.request(http.MethodPost, "/api/v1/rewards/luck-bonus", nil, auth.SessionToken)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeOnCooldown, apiErr.Code)
	assert.Contains(t, apiErr.Message, "3600")

	ts.app.MockRandom.QueueIntn(2)
	ts.app.MockRandom.QueueBetween(3)
	rr = ts.request(http.MethodPost, "/api/v1/rewards/mystery-box", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var reward response.Reward
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reward))
	assert.Equal(t, "click_power", reward.Type)
	assert.Equal(t, int64(3), reward.Amount)
	assert.Zero(t, reward.MysteryBoxes)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	a := ts.register(t, "alice")
	b := ts.register(t, "bob")
	ts.register(t, "idle")

	ts.save(t, a.SessionToken, saveBody(500))
	ts.save(t, b.SessionToken, saveBody(900))

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard?category=crystals", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var lb response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lb))
	assert.Equal(t, "crystals", lb.Type)
	assert.NotEmpty(t, lb.Label)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, "bob", lb.Entries[0].Username)
	assert.Equal(t, 1, lb.Entries[0].Rank)
	assert.Equal(t, int64(900), lb.Entries[0].Score)
	assert.Equal(t, "alice", lb.Entries[1].Username)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?category=crystals&limit=1", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lb))
	assert.Len(t, lb.Entries, 1)

	// "type" is accepted as an alias; cps = 4*1 + 1*5
	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?type=cps", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lb))
	assert.Equal(t, "cps", lb.Type)
	require.NotEmpty(t, lb.Entries)
	assert.Equal(t, int64(9), lb.Entries[0].Score)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?category=speed", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCategory, decodeError(t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=ten", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	a := ts.register(t, "alice")
	b := ts.register(t, "bob")
	ts.save(t, a.SessionToken, saveBody(500))
	ts.save(t, b.SessionToken, saveBody(900))

	rr := ts.request(http.MethodGet, "/api/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats response.StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Stats.TotalPlayers)
	assert.Equal(t, int64(1_400), stats.Stats.TotalCurrency)
	assert.Equal(t, int64(500), stats.Stats.TotalClicks)
}

func TestGameplayRateLimited(t *testing.T) {
	app := factory.NewTestApp()
	app.RateLimiter = middleware.NewRateLimiter(1, 2, time.Minute, app.MockClock.Now)
	ts := &testServer{handler: app.Router(), app: app}
	auth := ts.register(t, "spammer")

	for i := 0; i < 2; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/rewards/mystery-box", nil, auth.SessionToken)
		assert.Equal(t, http.StatusConflict, rr.Code)
	}
	rr := ts.request(http.MethodPost, "/api/v1/rewards/mystery-box", nil, auth.SessionToken)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, apierr.CodeRateLimited, decodeError(t, rr).Code)

	// Reads are not throttled
	rr = ts.request(http.MethodGet, "/api/v1/game", nil, auth.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	app.MockClock.Advance(time.Second)
	rr = ts.request(http.MethodPost, "/api/v1/rewards/mystery-box", nil, auth.SessionToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestMetricsRecordActions(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.register(t, "hank")
	ts.request(http.MethodPost, "/api/v1/rewards/mystery-box", nil, auth.SessionToken)

	rec := httptest.NewRecorder()
	ts.app.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `crystal_actions_total{action="register",outcome="ok"} 1`)
	assert.Contains(t, body, `crystal_actions_total{action="mystery_box",outcome="NO_BOXES_AVAILABLE"} 1`)
	assert.Contains(t, body, `route="/api/v1/rewards/mystery-box"`)
}
