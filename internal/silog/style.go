package silog

import "github.com/charmbracelet/lipgloss"

// Style defines the presentation of a Logger's output:
// colors and decoration for level labels, keys, and values.
//
// The zero value renders without any colors or labels;
// use [DefaultStyle] or [PlainStyle] to get a usable Style.
type Style struct {
	// Key is the style applied to structured log attribute keys.
	Key lipgloss.Style

	// KeyValueDelimiter separates an attribute key from its value.
	KeyValueDelimiter lipgloss.Style

	// LevelLabels holds the short label printed for each log level,
	// e.g. "INF" for [LevelInfo].
	LevelLabels ByLevel[lipgloss.Style]

	// MultilinePrefix is prepended to each line of a multi-line
	// attribute value.
	MultilinePrefix lipgloss.Style

	// PrefixDelimiter separates a logger prefix (see Logger.WithPrefix)
	// from the message.
	PrefixDelimiter lipgloss.Style

	// Messages optionally overrides the style of the log message
	// itself, per level.
	Messages ByLevel[lipgloss.Style]

	// Values optionally overrides the style used to render the value
	// of specific well-known attribute keys (e.g. "error").
	Values map[string]lipgloss.Style
}

// DefaultStyle returns the colorized style used for TTY output.
func DefaultStyle() *Style {
	return &Style{
		Key:               lipgloss.NewStyle().Faint(true),
		KeyValueDelimiter: lipgloss.NewStyle().SetString("=").Faint(true),
		MultilinePrefix:   lipgloss.NewStyle().SetString("  | ").Faint(true),
		PrefixDelimiter:   lipgloss.NewStyle().SetString(": "),

		LevelLabels: ByLevel[lipgloss.Style]{
			Debug: lipgloss.NewStyle().SetString("DBG").Foreground(lipgloss.Color("8")),  // gray
			Info:  lipgloss.NewStyle().SetString("INF").Foreground(lipgloss.Color("10")), // green
			Warn:  lipgloss.NewStyle().SetString("WRN").Foreground(lipgloss.Color("11")), // yellow
			Error: lipgloss.NewStyle().SetString("ERR").Foreground(lipgloss.Color("9")),  // red
			Fatal: lipgloss.NewStyle().SetString("FTL").Foreground(lipgloss.Color("9")),  // red
		},

		Messages: ByLevel[lipgloss.Style]{
			Debug: lipgloss.NewStyle().Faint(true),
			Error: lipgloss.NewStyle().Bold(true),
			Fatal: lipgloss.NewStyle().Bold(true),
		},

		Values: map[string]lipgloss.Style{
			"error": lipgloss.NewStyle().Foreground(lipgloss.Color("9")), // red
		},
	}
}

// PlainStyle returns a style with no colors, suitable for output that
// isn't a terminal (e.g. redirected to a file or pipe).
func PlainStyle() *Style {
	return &Style{
		KeyValueDelimiter: lipgloss.NewStyle().SetString("="),
		MultilinePrefix:   lipgloss.NewStyle().SetString("  | "),
		PrefixDelimiter:   lipgloss.NewStyle().SetString(": "),

		LevelLabels: ByLevel[lipgloss.Style]{
			Debug: lipgloss.NewStyle().SetString("DBG"),
			Info:  lipgloss.NewStyle().SetString("INF"),
			Warn:  lipgloss.NewStyle().SetString("WRN"),
			Error: lipgloss.NewStyle().SetString("ERR"),
			Fatal: lipgloss.NewStyle().SetString("FTL"),
		},
	}
}
