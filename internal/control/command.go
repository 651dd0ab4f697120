// Package control turns input lines into planner and study-session actions.
// One read loop dispatches every command so timer state changes stay ordered.
package control

import "strings"

// CommandType enumerates supported command words.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdEmpty
	CmdAdd
	CmdList
	CmdShow
	CmdMark
	CmdUnmark
	CmdDelete
	CmdStudy
	CmdHelp
	CmdBye
	CmdStart
	CmdPause
	CmdResume
	CmdStop
	CmdLeave
)

var commandWords = map[string]CommandType{
	"add":    CmdAdd,
	"list":   CmdList,
	"show":   CmdShow,
	"mark":   CmdMark,
	"unmark": CmdUnmark,
	"delete": CmdDelete,
	"study":  CmdStudy,
	"help":   CmdHelp,
	"bye":    CmdBye,
	"start":  CmdStart,
	"pause":  CmdPause,
	"resume": CmdResume,
	"stop":   CmdStop,
	"leave":  CmdLeave,
}

// Command is one parsed input line.
type Command struct {
	Type CommandType
	Word string
	Args []string
}

// Parse splits a line into its command word and arguments. The command word
// is case-insensitive.
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Type: CmdEmpty}
	}
	word := strings.ToLower(fields[0])
	commandType, ok := commandWords[word]
	if !ok {
		commandType = CmdUnknown
	}
	return Command{Type: commandType, Word: word, Args: fields[1:]}
}

// AllowedInPlanner reports whether the command is accepted outside a study
// session.
func (command Command) AllowedInPlanner() bool {
	switch command.Type {
	case CmdAdd, CmdList, CmdShow, CmdMark, CmdUnmark, CmdDelete, CmdStudy, CmdHelp, CmdBye:
		return true
	}
	return false
}

// AllowedInStudy reports whether the command is accepted inside a study
// session.
func (command Command) AllowedInStudy() bool {
	switch command.Type {
	case CmdStart, CmdPause, CmdResume, CmdStop, CmdMark, CmdShow, CmdLeave, CmdHelp, CmdBye:
		return true
	}
	return false
}
