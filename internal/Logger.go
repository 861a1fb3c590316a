package internal

import "fmt"

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	Info LogLevel = iota
	Warning
	Error
	Debug
)

// String returns the lowercase name of the level
func (l LogLevel) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// LogStruct represents a log entry with a level and message
type LogStruct struct {
	LogLevel LogLevel
	Message  string
}

// LogHandlerFunc defines the function signature for log handlers
type LogHandlerFunc func(sender interface{}, log LogStruct)

// LogHandler is the global event handler for logs. Nothing is logged while it is nil.
var LogHandler LogHandlerFunc

func pushLog(sender interface{}, level LogLevel, message string) {
	if LogHandler != nil {
		LogHandler(sender, LogStruct{
			LogLevel: level,
			Message:  message,
		})
	}
}

// PushLogDebug sends a debug log message
func PushLogDebug(sender interface{}, message string) {
	pushLog(sender, Debug, message)
}

// PushLogDebugf formats and sends a debug log message. Formatting is skipped when no handler is set.
func PushLogDebugf(sender interface{}, format string, args ...any) {
	if LogHandler != nil {
		pushLog(sender, Debug, fmt.Sprintf(format, args...))
	}
}

// PushLogInfo sends an info log message
func PushLogInfo(sender interface{}, message string) {
	pushLog(sender, Info, message)
}

// PushLogInfof formats and sends an info log message
func PushLogInfof(sender interface{}, format string, args ...any) {
	if LogHandler != nil {
		pushLog(sender, Info, fmt.Sprintf(format, args...))
	}
}

// PushLogWarning sends a warning log message
func PushLogWarning(sender interface{}, message string) {
	pushLog(sender, Warning, message)
}

// PushLogWarningf formats and sends a warning log message
func PushLogWarningf(sender interface{}, format string, args ...any) {
	if LogHandler != nil {
		pushLog(sender, Warning, fmt.Sprintf(format, args...))
	}
}

// PushLogError sends an error log message
func PushLogError(sender interface{}, message string) {
	pushLog(sender, Error, message)
}
