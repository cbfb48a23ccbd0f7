package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/crystalclicker/internal/api/handler"
	"github.com/mcoot/crystalclicker/internal/config"
	"github.com/mcoot/crystalclicker/internal/dependencies/mocks"
	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/services/auth"
	"github.com/mcoot/crystalclicker/internal/storage"
	"github.com/mcoot/crystalclicker/internal/storage/memory"
	"github.com/mcoot/crystalclicker/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestAuthConfig is a fast, deterministic auth configuration
func TestAuthConfig() auth.Config {
	return auth.Config{
		SigningKey:      "test-signing-key",
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates a TestApp on top of the given store
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, TestAuthConfig(), config.DefaultBalance(), testutil.NopLogger())
	app.Metrics = metrics.New()
	app.Retrier = handler.NewRetrier(app.Metrics, handler.RetryConfig{
		InitialInterval: time.Millisecond,
		MaxRetries:      3,
	})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
