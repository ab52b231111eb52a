// Package observability provides the centralized logging facility shared by
// every visualizer subsystem. It is a direct generalization of the teacher's
// internal/debug.Logger (circular buffer + per-component enable flags +
// buffered channel + background drain goroutine) retargeted from CPU/PPU/
// APU/Memory/Input/UI/System to Parser/Expr/Audio/Beat/Preset/Render/Engine.
//
// No third-party logging library appears anywhere in the retrieved example
// corpus; this hand-rolled logger over stdlib sync/channels is the corpus's
// own idiom, not a stdlib fallback (see DESIGN.md).
package observability

import (
	"fmt"
	"sync"
)

// Logger is a non-blocking, component-scoped log sink. Equation evaluation
// and the audio callback path must never block on logging (spec.md §5), so
// Log enqueues onto a buffered channel and drops the entry if the channel is
// full rather than waiting.
type Logger struct {
	entries    []Entry
	entriesMu  sync.RWMutex
	maxEntries int
	writeIndex int
	entryCount int

	componentEnabled map[Component]bool
	componentMu      sync.RWMutex

	minLevel Level
	levelMu  sync.RWMutex

	logChan  chan Entry
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewLogger creates a Logger with a circular buffer of at least 100 entries.
func NewLogger(maxEntries int) *Logger {
	if maxEntries < 100 {
		maxEntries = 100
	}

	l := &Logger{
		entries:          make([]Entry, maxEntries),
		maxEntries:       maxEntries,
		componentEnabled: make(map[Component]bool),
		minLevel:         LevelInfo,
		logChan:          make(chan Entry, 1000),
		shutdown:         make(chan struct{}),
	}

	for _, c := range []Component{
		ComponentParser, ComponentExpr, ComponentAudio, ComponentBeat,
		ComponentPreset, ComponentRender, ComponentEngine,
	} {
		l.componentEnabled[c] = true
	}

	l.wg.Add(1)
	go l.processLogs()

	return l
}

func (l *Logger) processLogs() {
	defer l.wg.Done()
	for {
		select {
		case entry := <-l.logChan:
			l.addEntry(entry)
		case <-l.shutdown:
			for {
				select {
				case entry := <-l.logChan:
					l.addEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) addEntry(entry Entry) {
	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()

	l.entries[l.writeIndex] = entry
	l.writeIndex = (l.writeIndex + 1) % l.maxEntries
	if l.entryCount < l.maxEntries {
		l.entryCount++
	}
}

// Log records a message if the component is enabled and the level clears
// the configured minimum. Never blocks.
func (l *Logger) Log(component Component, level Level, message string, data map[string]interface{}) {
	l.componentMu.RLock()
	enabled := l.componentEnabled[component]
	l.componentMu.RUnlock()
	if !enabled {
		return
	}

	l.levelMu.RLock()
	minLevel := l.minLevel
	l.levelMu.RUnlock()
	if level > minLevel {
		return
	}

	entry := Entry{Component: component, Level: level, Message: message, Data: data}
	select {
	case l.logChan <- entry:
	default:
	}
}

// Logf is the formatted variant of Log.
func (l *Logger) Logf(component Component, level Level, format string, args ...interface{}) {
	l.Log(component, level, fmt.Sprintf(format, args...), nil)
}

// GetRecentEntries returns the most recent count entries, oldest first.
func (l *Logger) GetRecentEntries(count int) []Entry {
	all := l.GetEntries()
	if count >= len(all) {
		return all
	}
	return all[len(all)-count:]
}

// GetEntries returns a copy of all buffered entries, oldest first.
func (l *Logger) GetEntries() []Entry {
	l.entriesMu.RLock()
	defer l.entriesMu.RUnlock()

	if l.entryCount == 0 {
		return []Entry{}
	}

	out := make([]Entry, l.entryCount)
	if l.entryCount < l.maxEntries {
		copy(out, l.entries[:l.entryCount])
	} else {
		for i := 0; i < l.entryCount; i++ {
			out[i] = l.entries[(l.writeIndex+i)%l.maxEntries]
		}
	}
	return out
}

// SetComponentEnabled toggles logging for a component.
func (l *Logger) SetComponentEnabled(component Component, enabled bool) {
	l.componentMu.Lock()
	defer l.componentMu.Unlock()
	l.componentEnabled[component] = enabled
}

// SetMinLevel sets the minimum level that will be recorded.
func (l *Logger) SetMinLevel(level Level) {
	l.levelMu.Lock()
	defer l.levelMu.Unlock()
	l.minLevel = level
}

// Shutdown drains pending entries and stops the background goroutine.
func (l *Logger) Shutdown() {
	close(l.shutdown)
	l.wg.Wait()
}
