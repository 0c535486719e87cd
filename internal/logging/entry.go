// Package logging provides the centralized, ring-buffered logging system
// shared by every core package of the synthesis engine.
package logging

import (
	"fmt"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

// String returns the string representation of a level.
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

// Component identifies the subsystem that produced a log entry.
type Component string

const (
	ComponentIngest     Component = "Ingest"
	ComponentSynth      Component = "Synth"
	ComponentWorkerPool Component = "WorkerPool"
	ComponentAudioBuf   Component = "AudioBuf"
	ComponentStereo     Component = "Stereo"
	ComponentEnvelope   Component = "Envelope"
	ComponentReverb     Component = "Reverb"
	ComponentMIDI       Component = "MIDI"
	ComponentSystem     Component = "System"
)

// Entry is a single log record.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     Level
	Message   string
	Data      map[string]interface{}
}

// Format renders the entry as a single line.
func (e *Entry) Format() string {
	ts := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", ts, e.Component, e.Level, e.Message)
}
