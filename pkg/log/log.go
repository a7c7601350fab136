package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Color codes
const (
	reset      = "\033[0m"
	dim        = "\033[2m"
	blue       = "\033[34m"
	magenta    = "\033[35m"
	cyan       = "\033[36m"
	white      = "\033[37m"
	green      = "\033[32m"
	yellow     = "\033[33m"
	boldRed    = "\033[1;31m"
	boldGreen  = "\033[1;32m"
	boldYellow = "\033[1;33m"
)

// Emojis for different log types
const (
	infoEmoji    = "ℹ️ "
	successEmoji = "✅ "
	errorEmoji   = "❌ "
	warnEmoji    = "⚠️ "
	stepEmoji    = "👉 "
	loadingEmoji = "⏳ "
	debugEmoji   = "🔍 "
	repoEmoji    = "📦 "
	branchEmoji  = "🌿 "
	fileEmoji    = "📝 "
	promptEmoji  = "🤖 "
)

const wrapWidth = 80

// Logger prints colored, emoji-prefixed progress lines
type Logger struct {
	debug  bool
	color  bool
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// New creates a logger writing progress to stdout and errors to stderr
func New(debug bool) *Logger {
	return &Logger{
		debug:  debug,
		color:  true,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewWithWriter creates an uncolored logger that writes everything to w
func NewWithWriter(w io.Writer, debug bool) *Logger {
	return &Logger{
		debug:  debug,
		out:    w,
		errOut: w,
	}
}

// SetColor toggles ANSI colors. Turn them off when output is not a terminal.
func (l *Logger) SetColor(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = enabled
}

// formatMessage wraps long lines at word boundaries
func formatMessage(msg string) string {
	lines := strings.Split(msg, "\n")
	var formatted []string

	for _, line := range lines {
		if len(line) <= wrapWidth {
			formatted = append(formatted, line)
			continue
		}

		words := strings.Fields(line)
		current := ""
		for _, word := range words {
			if current != "" && len(current)+len(word)+1 > wrapWidth {
				formatted = append(formatted, current)
				current = word
				continue
			}
			if current == "" {
				current = word
			} else {
				current += " " + word
			}
		}
		if current != "" {
			formatted = append(formatted, current)
		}
	}

	return strings.Join(formatted, "\n")
}

func (l *Logger) print(w io.Writer, color, emoji, format string, args ...interface{}) {
	msg := formatMessage(fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.color {
		fmt.Fprintf(w, "%s%s%s%s\n", color, emoji, msg, reset)
		return
	}
	fmt.Fprintf(w, "%s%s\n", emoji, msg)
}

// Info prints an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.print(l.out, blue, infoEmoji, format, args...)
}

// Success prints a success message
func (l *Logger) Success(format string, args ...interface{}) {
	l.print(l.out, boldGreen, successEmoji, format, args...)
}

// Error prints an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.print(l.errOut, boldRed, errorEmoji, format, args...)
}

// Warning prints a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.print(l.out, boldYellow, warnEmoji, format, args...)
}

// Step prints a step message
func (l *Logger) Step(format string, args ...interface{}) {
	l.print(l.out, cyan, stepEmoji, format, args...)
}

// Loading prints a message for a long-running network call
func (l *Logger) Loading(format string, args ...interface{}) {
	l.print(l.out, cyan, loadingEmoji, format, args...)
}

// Debug prints a debug message if debug is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.print(l.out, dim, debugEmoji, format, args...)
}

// Repo prints a repository-related message
func (l *Logger) Repo(format string, args ...interface{}) {
	l.print(l.out, white, repoEmoji, format, args...)
}

// Branch prints a branch-related message
func (l *Logger) Branch(format string, args ...interface{}) {
	l.print(l.out, green, branchEmoji, format, args...)
}

// File prints a file-related message
func (l *Logger) File(format string, args ...interface{}) {
	l.print(l.out, yellow, fileEmoji, format, args...)
}

// Prompt prints a completion-related message
func (l *Logger) Prompt(format string, args ...interface{}) {
	l.print(l.out, magenta, promptEmoji, format, args...)
}
