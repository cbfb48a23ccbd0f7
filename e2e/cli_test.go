package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crystalclicker/internal/api"
	"github.com/mcoot/crystalclicker/internal/config"
	"github.com/mcoot/crystalclicker/internal/factory"
	redisstorage "github.com/mcoot/crystalclicker/internal/storage/redis"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "crystal-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/crystal")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "CRYSTAL_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := r.run(args...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full server stack on a random port, backed by
// an in-process redis
func startTestServer(t *testing.T) string {
	t.Helper()

	mini := miniredis.RunT(t)

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()
	app, err := factory.New(factory.Config{
		StorageType: config.StorageRedis,
		RedisConfig: &redisCfg,
		AuthConfig:  factory.TestAuthConfig(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	mux := http.NewServeMux()
	mux.Handle("/api/", app.Router())
	mux.Handle("/metrics", app.Metrics.Handler())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(mux, config.ServerConfig{
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}, app.Logger)

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"player"`
	SessionToken string `json:"session_token"`
}

type producer struct {
	Count int64 `json:"count"`
	Price int64 `json:"price"`
}

type gameStateResponse struct {
	Currency      int64               `json:"currency"`
	TotalClicks   int64               `json:"total_clicks"`
	Producers     map[string]producer `json:"producers"`
	RebirthCount  int64               `json:"rebirth_count"`
	RebirthPoints int64               `json:"rebirth_points"`
	LuckLevel     int64               `json:"luck_level"`
}

type rebirthResponse struct {
	RebirthCount int64 `json:"rebirth_count"`
	GainedPoints int64 `json:"gained_points"`
	LuckGained   int64 `json:"luck_gained"`
}

type bonusResponse struct {
	TotalBonus int64 `json:"total_bonus"`
}

type leaderboardResponse struct {
	Type    string `json:"type"`
	Entries []struct {
		Rank     int    `json:"rank"`
		Username string `json:"username"`
		Score    int64  `json:"score"`
	} `json:"entries"`
}

type statsResponse struct {
	Stats struct {
		TotalPlayers  int64 `json:"total_players"`
		TotalRebirths int64 `json:"total_rebirths"`
	} `json:"stats"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func TestCLIProgressionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	cli := newCLIRunner(t, startTestServer(t))

	var health healthResponse
	cli.runJSON(t, &health, "health")
	assert.Equal(t, "healthy", health.Status)

	var registered authResponse
	cli.runJSON(t, &registered, "player", "register", "--user", "alice", "--pass", "secret123")
	assert.Equal(t, "alice", registered.Player.Username)

	out, err := cli.run("player", "register", "--user", "alice", "--pass", "other")
	assert.Error(t, err)
	assert.Contains(t, out, "USERNAME_EXISTS")

	var state gameStateResponse
	cli.runJSON(t, &state, "game", "save", "--currency", "250000", "--clicks", "1000", "--producer", "autoclicker=5:12")
	assert.Equal(t, int64(250_000), state.Currency)

	cli.runJSON(t, &state, "game", "load")
	assert.Equal(t, int64(1000), state.TotalClicks)
	assert.Equal(t, producer{Count: 5, Price: 12}, state.Producers["autoclicker"])

	// floor(log10(250000) + 0.25) = 5
	var rebirth rebirthResponse
	cli.runJSON(t, &rebirth, "rebirth", "do")
	assert.Equal(t, int64(1), rebirth.RebirthCount)
	assert.Equal(t, int64(5), rebirth.GainedPoints)

	out, err = cli.run("rebirth", "do")
	assert.Error(t, err)
	assert.Contains(t, out, "INSUFFICIENT_CURRENCY")
	assert.Contains(t, out, "200000")

	out, err = cli.run("reward", "box")
	assert.Error(t, err)
	assert.Contains(t, out, "NO_BOXES_AVAILABLE")

	// The luck roll on rebirth is random
	if rebirth.LuckGained > 0 {
		var bonus bonusResponse
		cli.runJSON(t, &bonus, "reward", "luck")
		assert.GreaterOrEqual(t, bonus.TotalBonus, int64(150))

		out, err = cli.run("reward", "luck")
		assert.Error(t, err)
		assert.Contains(t, out, "ON_COOLDOWN")
	} else {
		out, err = cli.run("reward", "luck")
		assert.Error(t, err)
		assert.Contains(t, out, "NO_LUCK_LEVEL")
	}

	var lb leaderboardResponse
	cli.runJSON(t, &lb, "leaderboard", "--category", "rebirth")
	assert.Equal(t, "rebirth", lb.Type)
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, "alice", lb.Entries[0].Username)
	assert.Equal(t, int64(1), lb.Entries[0].Score)

	var stats statsResponse
	cli.runJSON(t, &stats, "stats")
	assert.Equal(t, int64(1), stats.Stats.TotalPlayers)
	assert.Equal(t, int64(1), stats.Stats.TotalRebirths)
}

func TestCLIRejectsBadToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	cli := newCLIRunner(t, startTestServer(t))

	out, err := cli.runWithToken("not-a-token", "player", "me")
	assert.Error(t, err)
	assert.Contains(t, out, "UNAUTHORIZED")
}
