package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorMagenta = "\x1b[35m"
	colorReset   = "\x1b[0m"
)

var _bufferPool = buffer.NewPool()

// Fields rendered as a short bracketed prefix instead of key=value pairs.
var contextPrefixKeys = []struct{ key, short string }{
	{"target", "T"},
	{"container", "C"},
	{"image", "I"},
}

// consoleEncoder renders one human-readable line per entry:
//
//	2024-01-02T15:04:05Z [T:local][C:abc123] [INFO] driver/driver.go:88: message key=value
type consoleEncoder struct {
	*zapcore.MapObjectEncoder
	cfg    zapcore.EncoderConfig
	opts   Options
	colors bool
}

func newConsoleEncoder(cfg zapcore.EncoderConfig, opts Options, colors bool) *consoleEncoder {
	return &consoleEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		cfg:              cfg,
		opts:             opts,
		colors:           colors,
	}
}

func (enc *consoleEncoder) Clone() zapcore.Encoder {
	clone := newConsoleEncoder(enc.cfg, enc.opts, enc.colors)
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *consoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	all := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		all.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(all)
	}

	line := _bufferPool.Get()
	if enc.cfg.TimeKey != "" {
		line.AppendString(ent.Time.Format(enc.opts.TimestampFormat))
		line.AppendString(" ")
	}

	var prefix strings.Builder
	for _, pk := range contextPrefixKeys {
		if v, ok := all.Fields[pk.key]; ok {
			if s := fmt.Sprint(v); s != "" {
				fmt.Fprintf(&prefix, "[%s:%s]", pk.short, s)
			}
			delete(all.Fields, pk.key)
		}
	}
	if prefix.Len() > 0 {
		line.AppendString(prefix.String())
		line.AppendString(" ")
	}

	levelText := fmt.Sprintf("[%s]", strings.ToUpper(ent.Level.String()))
	lvl := levelFromZap(ent.Level)
	if custom, ok := all.Fields[customLevelKey].(string); ok {
		levelText = "[" + custom + "]"
		if parsed, err := ParseLevel(custom); err == nil {
			lvl = parsed
		}
	}
	delete(all.Fields, customLevelKey)
	if enc.colors {
		levelText = levelToColor(lvl, levelText)
	}
	line.AppendString(levelText)
	line.AppendString(" ")

	if ent.Caller.Defined && enc.cfg.CallerKey != "" {
		line.AppendString(ent.Caller.TrimmedPath())
		line.AppendString(": ")
	}
	line.AppendString(ent.Message)

	keys := make([]string, 0, len(all.Fields))
	for k := range all.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line.AppendString(" ")
		line.AppendString(k)
		line.AppendString("=")
		switch v := all.Fields[k].(type) {
		case string:
			if v == "" || strings.ContainsAny(v, " \t\n\"") {
				fmt.Fprintf(line, "%q", v)
			} else {
				line.AppendString(v)
			}
		default:
			fmt.Fprintf(line, "%v", v)
		}
	}

	if ent.Stack != "" && enc.cfg.StacktraceKey != "" {
		line.AppendString("\n")
		line.AppendString(ent.Stack)
	}
	line.AppendString(enc.cfg.LineEnding)
	return line, nil
}

func levelToColor(level Level, message string) string {
	switch level {
	case DebugLevel:
		return colorMagenta + message + colorReset
	case SuccessLevel:
		return colorGreen + message + colorReset
	case WarnLevel:
		return colorYellow + message + colorReset
	case ErrorLevel, FatalLevel:
		return colorRed + message + colorReset
	default:
		return message
	}
}

func levelFromZap(l zapcore.Level) Level {
	switch {
	case l <= zapcore.DebugLevel:
		return DebugLevel
	case l == zapcore.InfoLevel:
		return InfoLevel
	case l == zapcore.WarnLevel:
		return WarnLevel
	case l == zapcore.ErrorLevel:
		return ErrorLevel
	default:
		return FatalLevel
	}
}
