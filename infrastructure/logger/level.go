package logger

import "strings"

// Level is the minimum severity a logger or a backend writer lets through
type Level uint32

// Severities, from the most verbose to none at all
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

type levelNames struct {
	tag     string
	aliases []string
}

// names holds the three-letter tag written in every log line and the
// spellings accepted by --debuglevel
var names = map[Level]levelNames{
	LevelTrace:    {tag: "TRC", aliases: []string{"trace", "trc"}},
	LevelDebug:    {tag: "DBG", aliases: []string{"debug", "dbg"}},
	LevelInfo:     {tag: "INF", aliases: []string{"info", "inf"}},
	LevelWarn:     {tag: "WRN", aliases: []string{"warn", "warning", "wrn"}},
	LevelError:    {tag: "ERR", aliases: []string{"error", "err"}},
	LevelCritical: {tag: "CRT", aliases: []string{"critical", "crit", "crt"}},
	LevelOff:      {tag: "OFF", aliases: []string{"off"}},
}

var levelsByAlias = func() map[string]Level {
	levels := make(map[string]Level)
	for level, name := range names {
		for _, alias := range name.aliases {
			levels[alias] = level
		}
	}
	return levels
}()

// LevelFromString parses a level name case-insensitively. Unknown names
// yield LevelInfo and false.
func LevelFromString(s string) (Level, bool) {
	level, ok := levelsByAlias[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LevelInfo, false
	}
	return level, true
}

// String returns the tag written in log lines. Anything at or above
// LevelOff is "OFF".
func (l Level) String() string {
	if l >= LevelOff {
		return names[LevelOff].tag
	}
	return names[l].tag
}
