package observability

import (
	"fmt"
	"time"
)

// Level represents the severity of a log entry, mirroring the teacher's
// internal/debug.LogLevel ordering.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component identifies which visualizer subsystem produced a log entry.
// Generalized from the teacher's CPU/PPU/APU/Memory/Input/UI/System set.
type Component string

const (
	ComponentParser  Component = "Parser"
	ComponentExpr    Component = "Expr"
	ComponentAudio   Component = "Audio"
	ComponentBeat    Component = "Beat"
	ComponentPreset  Component = "Preset"
	ComponentRender  Component = "Render"
	ComponentEngine  Component = "Engine"
)

// Entry is a single log record.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     Level
	Message   string
	Data      map[string]interface{}
}

func (e *Entry) Format() string {
	ts := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", ts, e.Component, e.Level, e.Message)
}
