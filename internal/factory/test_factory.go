package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sweepbot/internal/dependencies/mocks"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/storage"
	"github.com/mcoot/sweepbot/internal/storage/memory"
	"github.com/mcoot/sweepbot/internal/testutil"
)

// TestStart is the mock clock's initial time
var TestStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp is an App with a mock clock and random source. Mines are placed
// on the first eligible cells in row-major order unless Intn values are
// queued.
type TestApp struct {
	*App

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestOption customises NewTestApp
type TestOption func(*testOptions)

type testOptions struct {
	store storage.Storage
}

// WithStorage backs the app with store instead of a fresh memory store
func WithStorage(store storage.Storage) TestOption {
	return func(o *testOptions) { o.store = store }
}

// NewTestApp wires an App with mocked dependencies and the cheapest bcrypt cost
func NewTestApp(opts ...TestOption) *TestApp {
	o := testOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.New()
	}

	mockClock := mocks.NewMockClock(TestStart)
	mockRandom := mocks.NewMockRandom()
	app := newWithDependencies(o.store, mockClock, mockRandom, auth.Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// NewGame creates a game under a fixed ID and returns it with its control token
func (a *TestApp) NewGame(ctx context.Context, id model.GameID, opts minefield.Options) (*model.Game, string, error) {
	a.MockRandom.QueueString(string(id))
	return a.Minefield.CreateGame(ctx, opts)
}
