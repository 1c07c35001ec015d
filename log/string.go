package log

import "fmt"

// String returns the lowercase name of the level. Offsets from a named
// level follow the [slog.Level] convention ("debug-4", "info+2").
func (l Level) String() string {
	str := func(base string, val Level) string {
		if val == 0 {
			return base
		}

		return fmt.Sprintf("%s%+d", base, val)
	}

	switch {
	case l < LevelDebug:
		return str("trace", l-LevelTrace)
	case l < LevelInfo:
		return str("debug", l-LevelDebug)
	case l < LevelWarn:
		return str("info", l-LevelInfo)
	case l < LevelError:
		return str("warn", l-LevelWarn)
	default:
		return str("error", l-LevelError)
	}
}

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}
