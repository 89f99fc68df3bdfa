package ui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Command is one operator action on the list
type Command int

const (
	CmdNone Command = iota
	CmdExit
	CmdRefresh
	CmdClear
	CmdNext
	CmdPrev
	CmdFirst
)

var commandNames = map[Command]string{
	CmdNone:    "none",
	CmdExit:    "exit",
	CmdRefresh: "refresh",
	CmdClear:   "clear",
	CmdNext:    "next",
	CmdPrev:    "prev",
	CmdFirst:   "first",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

var keyCommands = map[tcell.Key]Command{
	tcell.KeyEscape:     CmdExit,
	tcell.KeyCtrlC:      CmdExit,
	tcell.KeyF5:         CmdRefresh,
	tcell.KeyBackspace:  CmdClear,
	tcell.KeyBackspace2: CmdClear,
	tcell.KeyDown:       CmdNext,
	tcell.KeyUp:         CmdPrev,
	tcell.KeyHome:       CmdFirst,
}

var runeCommands = map[rune]Command{
	'q': CmdExit,
	'r': CmdRefresh,
	'c': CmdClear,
	'j': CmdNext,
	'k': CmdPrev,
	'g': CmdFirst,
}

// CommandFor maps a key event to a command. Letters match in either case.
func CommandFor(ev *tcell.EventKey) Command {
	if ev.Key() == tcell.KeyRune {
		return runeCommands[unicode.ToLower(ev.Rune())]
	}
	return keyCommands[ev.Key()]
}

// KeyHelp is the one-line key legend shown under the header
const KeyHelp = "j/↓ next  k/↑ prev  g first  c clear  r refresh  q quit"
