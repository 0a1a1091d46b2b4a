package ui

import (
	"sync"
	"testing"
	"time"

	"worklog/internal/config"
	"worklog/internal/tracker"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// The ASCII profile strips color codes so assertions see plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// fakeClock is a controllable clock for timer-dependent tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// newTestTracker returns a tracker on a fake clock.
func newTestTracker(t *testing.T) (*tracker.Tracker, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	tr := tracker.New()
	tr.SetNowFunc(clock.Now)
	return tr, clock
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// newTestApp builds an App with confirmations disabled unless a test opts in.
func newTestApp(t *testing.T, tr *tracker.Tracker, confirm bool) *App {
	t.Helper()
	app := NewApp(tr, createTestStyles(), &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: confirm,
	})
	app.updateLayoutForTest()
	return app
}

func (a *App) updateLayoutForTest() {
	a.width = 80
	a.height = 30
	a.updateLayout()
}
