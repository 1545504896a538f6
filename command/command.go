// Package command parses the slash commands typed at the session prompt.
package command

import "strings"

type Type int

const (
	Unknown Type = iota
	Background
	Foreground
	Scroll
	Save
	Quit
)

// Command is one parsed slash command. Args holds anything after the verb.
type Command struct {
	Type Type
	Args []string
	Raw  string
}

var aliases = map[string]Type{
	"/b":          Background,
	"/bg":         Background,
	"/fg":         Foreground,
	"/foreground": Foreground,
	"/v":          Scroll,
	"/view":       Scroll,
	"/scroll":     Scroll,
	"/save":       Save,
	"/q":          Quit,
	"/quit":       Quit,
}

// Parse classifies a line of input. Lines not starting with "/" are plain
// text, not commands; unrecognized slash commands parse as Unknown so the
// UI can hint at the valid set.
func Parse(line string) (Command, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}

	fields := strings.Fields(trimmed)
	cmd := Command{Raw: trimmed, Args: fields[1:]}
	if t, ok := aliases[strings.ToLower(fields[0])]; ok {
		cmd.Type = t
	}
	return cmd, true
}

func (t Type) String() string {
	switch t {
	case Background:
		return "background"
	case Foreground:
		return "foreground"
	case Scroll:
		return "scroll"
	case Save:
		return "save"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}
