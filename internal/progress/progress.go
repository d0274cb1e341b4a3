// Package progress carries leveled diagnostic events from the indexer,
// publisher and pipeline to whichever front end is running.
package progress

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Event is one progress update.
type Event struct {
	Message string
	Level   Level
}

// Func receives progress events. A nil Func discards them.
type Func func(Event)

// Emit sends an event if f is not nil.
func (f Func) Emit(level Level, message string) {
	if f != nil {
		f(Event{Message: message, Level: level})
	}
}

// Verbose reports whether events at level should only be shown in verbose mode.
func (l Level) Verbose() bool {
	return l == LevelVerbose
}
