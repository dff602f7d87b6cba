package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// systemKey is lifted out of the attributes into the bracket prefix
const systemKey = "system"

// ConsoleHandler is a slog.Handler that writes one bracketed line per record:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key="quoted value"
type ConsoleHandler struct {
	w         io.Writer
	level     slog.Leveler
	mu        *sync.Mutex
	system    string
	useColors bool
	prefix    string // dotted group path applied to later attrs
	preformat string // attrs from WithAttrs, already rendered
}

// NewConsoleHandler creates a bracketed console handler
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		w:         w,
		level:     slog.LevelInfo,
		mu:        &sync.Mutex{},
		useColors: isTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// isTerminal checks if the writer is a terminal (for color output)
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	h.colored(&buf, levelColor(r.Level), "["+levelString(r.Level)+"]")

	system := h.system
	var attrs strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == systemKey && h.prefix == "" {
			system = a.Value.String()
			return true
		}
		appendAttr(&attrs, h.prefix, a)
		return true
	})

	if system != "" {
		buf.WriteString(" [" + system + "]")
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(" ")
	h.colored(&buf, colorGray, "["+ts.Format("15:04:05")+"]")

	buf.WriteString(" ")
	buf.WriteString(r.Message)
	buf.WriteString(h.preformat)
	buf.WriteString(attrs.String())
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *ConsoleHandler) colored(buf *strings.Builder, color, s string) {
	if h.useColors {
		buf.WriteString(color + s + colorReset)
		return
	}
	buf.WriteString(s)
}

// WithAttrs returns a new handler with the given attributes added
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	var buf strings.Builder
	buf.WriteString(h.preformat)
	for _, a := range attrs {
		if a.Key == systemKey && h.prefix == "" {
			clone.system = a.Value.String()
			continue
		}
		appendAttr(&buf, h.prefix, a)
	}
	clone.preformat = buf.String()
	return &clone
}

// WithGroup returns a new handler whose later attributes are qualified by name
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// appendAttr renders " key=value", flattening groups into dotted keys
func appendAttr(buf *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, groupPrefix, ga)
		}
		return
	}

	buf.WriteString(" ")
	buf.WriteString(prefix + a.Key)
	buf.WriteString("=")
	buf.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		s = fmt.Sprint(v.Any())
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// levelColor returns the ANSI color code for a log level
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}

// levelString returns a short, uppercase string for the log level
func levelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
