// Package textcmd turns free-text chat messages into engine commands and
// renders the engine's answers as chat replies.
//
// Grammar (case-insensitive, extra whitespace ignored):
//
//	sign in | sign out | porters | queue | help
//	request <from> to <to> [* | urgent]
//	pickup <id> | start <id> | done <id> | cancel <id>
//	undo <id> | cancel pickup <id>
//
// Anything else is answered with the help text.
package textcmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"porterage/internal/pkg/errs"
)

// Verb identifies a text command.
type Verb int

const (
	VerbHelp Verb = iota
	VerbSignIn
	VerbSignOut
	VerbPorters
	VerbQueue
	VerbRequest
	VerbPickup
	VerbStart
	VerbDone
	VerbCancel
	VerbCancelPickup
	VerbUndo
)

// ErrRequestFormat is returned for a "request" message without " to ".
var ErrRequestFormat = errors.New("expected: request <from> to <to> [*|urgent]")

// Command is a parsed message. Only the fields of its Verb are set.
type Command struct {
	Verb   Verb
	ID     int
	From   string
	To     string
	Urgent bool
}

var idVerbs = []struct {
	prefix string
	verb   Verb
}{
	// longest prefix first: "cancel pickup 3" must not parse as "cancel".
	{"cancel pickup", VerbCancelPickup},
	{"pickup", VerbPickup},
	{"start", VerbStart},
	{"done", VerbDone},
	{"cancel", VerbCancel},
	{"undo", VerbUndo},
}

// Parse reads one message body.
func Parse(body string) (Command, error) {
	text := strings.ToLower(strings.Join(strings.Fields(body), " "))

	switch text {
	case "sign in":
		return Command{Verb: VerbSignIn}, nil
	case "sign out":
		return Command{Verb: VerbSignOut}, nil
	case "porters":
		return Command{Verb: VerbPorters}, nil
	case "queue":
		return Command{Verb: VerbQueue}, nil
	}

	if rest, ok := strings.CutPrefix(text, "request "); ok {
		return parseRequest(rest)
	}

	for _, v := range idVerbs {
		if rest, ok := strings.CutPrefix(text, v.prefix+" "); ok {
			id, err := parseID(rest)
			if err != nil {
				return Command{Verb: v.verb}, err
			}
			return Command{Verb: v.verb, ID: id}, nil
		}
	}

	return Command{Verb: VerbHelp}, nil
}

func parseRequest(rest string) (Command, error) {
	from, toPart, found := strings.Cut(rest, " to ")
	if !found || strings.TrimSpace(from) == "" {
		return Command{Verb: VerbRequest}, ErrRequestFormat
	}

	fields := strings.Fields(toPart)
	if len(fields) == 0 || isUrgentMark(fields[0]) {
		return Command{Verb: VerbRequest}, ErrRequestFormat
	}

	cmd := Command{Verb: VerbRequest, From: strings.TrimSpace(from), To: fields[0]}
	for _, f := range fields[1:] {
		if isUrgentMark(f) {
			cmd.Urgent = true
		}
	}
	return cmd, nil
}

func isUrgentMark(s string) bool {
	return s == "*" || s == "urgent"
}

func parseID(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("request id", fmt.Errorf("%q is not a queue number", s))
	}
	return id, nil
}
