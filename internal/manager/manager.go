package manager

import (
	"math/rand"
	"os"
	"time"

	"milkwarp/internal/milkerr"
	"milkwarp/internal/preset"
)

// maxRetries bounds SafeLoad's exponential backoff (spec.md §4.6:
// "up to a bounded count before substituting the fallback").
const maxRetries = 4

// backoffBase is the base delay for SafeLoad's retry schedule
// (100ms x 2^n, spec.md §4.6).
const backoffBase = 100 * time.Millisecond

// Manager owns the preset catalog, cursor, and navigation history.
// It is accessed only on the frame thread (spec.md §5).
type Manager struct {
	catalog []Locator
	cursor  int

	history     []int // indices into catalog, most recent last
	historyPos  int    // position within history; -1 means "at the live cursor"
	rng         *rand.Rand
	sleep       func(time.Duration)
	readFile    func(string) ([]byte, error)
}

// NewManager creates a Manager over an already-scanned catalog.
// The starting cursor position is the first history entry, so HistoryBack
// can return to it.
func NewManager(catalog []Locator) *Manager {
	m := &Manager{
		catalog:    catalog,
		historyPos: -1,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      time.Sleep,
		readFile:   os.ReadFile,
	}
	if len(catalog) > 0 {
		m.pushHistory(m.cursor)
	}
	return m
}

// Catalog returns the current preset locator list.
func (m *Manager) Catalog() []Locator { return m.catalog }

// Current returns the locator at the cursor, or the zero Locator if the
// catalog is empty.
func (m *Manager) Current() (Locator, bool) {
	if len(m.catalog) == 0 {
		return Locator{}, false
	}
	return m.catalog[m.cursor], true
}

// Next advances the cursor forward with wraparound and records the move in
// history.
func (m *Manager) Next() (Locator, bool) {
	if len(m.catalog) == 0 {
		return Locator{}, false
	}
	m.cursor = (m.cursor + 1) % len(m.catalog)
	m.pushHistory(m.cursor)
	return m.Current()
}

// Prev moves the cursor backward with wraparound and records the move in
// history.
func (m *Manager) Prev() (Locator, bool) {
	if len(m.catalog) == 0 {
		return Locator{}, false
	}
	m.cursor = (m.cursor - 1 + len(m.catalog)) % len(m.catalog)
	m.pushHistory(m.cursor)
	return m.Current()
}

// Random selects uniformly among the catalog excluding the current preset,
// and records the move in history.
func (m *Manager) Random() (Locator, bool) {
	n := len(m.catalog)
	if n == 0 {
		return Locator{}, false
	}
	if n == 1 {
		m.pushHistory(m.cursor)
		return m.Current()
	}
	choice := m.rng.Intn(n - 1)
	if choice >= m.cursor {
		choice++
	}
	m.cursor = choice
	m.pushHistory(m.cursor)
	return m.Current()
}

// RandomTagged selects uniformly among catalog entries carrying tag,
// falling back to Random if no entry matches.
func (m *Manager) RandomTagged(tag string) (Locator, bool) {
	var matches []int
	for i, loc := range m.catalog {
		if loc.Tags[tag] {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return m.Random()
	}
	idx := matches[m.rng.Intn(len(matches))]
	m.cursor = idx
	m.pushHistory(m.cursor)
	return m.Current()
}

func (m *Manager) pushHistory(idx int) {
	if m.historyPos >= 0 && m.historyPos < len(m.history)-1 {
		m.history = m.history[:m.historyPos+1]
	}
	m.history = append(m.history, idx)
	m.historyPos = len(m.history) - 1
}

// HistoryBack navigates to the previous entry in navigation history.
func (m *Manager) HistoryBack() (Locator, bool) {
	if m.historyPos <= 0 {
		return Locator{}, false
	}
	m.historyPos--
	m.cursor = m.history[m.historyPos]
	return m.Current()
}

// HistoryForward navigates to the next entry in navigation history.
func (m *Manager) HistoryForward() (Locator, bool) {
	if m.historyPos < 0 || m.historyPos >= len(m.history)-1 {
		return Locator{}, false
	}
	m.historyPos++
	m.cursor = m.history[m.historyPos]
	return m.Current()
}

// SafeLoad attempts to read and parse the preset at path, retrying with
// exponential backoff (100ms x 2^n) up to maxRetries times on I/O failure.
// If every attempt fails, or the file is read but fails to parse, it
// returns the compiled-in fallback preset together with a warning-severity
// error describing the last failure — the caller always receives a usable
// preset (spec.md §4.6, §5: "preset load errors fall back to default").
func (m *Manager) SafeLoad(path string) (*preset.Preset, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		data, err := m.readFile(path)
		if err == nil {
			p, _, parseErr := preset.Parse(string(data))
			if parseErr == nil {
				return p, nil
			}
			lastErr = parseErr
			break // a parse error is not retryable; it will not change on retry
		}
		lastErr = err
		if attempt < maxRetries {
			m.sleep(backoffBase << attempt)
		}
	}

	fallback, _, err := preset.Parse(fallbackPresetText)
	if err != nil {
		// The fallback is asserted valid by TestFallbackPresetParses; this
		// branch can only be reached if that invariant has been broken.
		return nil, milkerr.Wrap(milkerr.ParseError, "manager", err)
	}
	return fallback, milkerr.Wrap(milkerr.IOError, "manager", lastErr).WithSeverity(milkerr.SeverityWarning)
}
