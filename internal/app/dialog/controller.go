// Package dialog implements the guided multi-step conversations: group
// selection, admin login, and the group and schedule management flows.
//
// Every controller keeps its position in an explicit step cursor stored in a
// Session. Handling a message either re-prompts on the same step, moves the
// cursor, or finishes the action. Back and cancel are recognised at every
// step before step-specific parsing.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// ErrUnknownStep reports a session whose cursor the controller does not know.
var ErrUnknownStep = errors.New("dialog: unknown step")

// Controller drives one dialog.
type Controller interface {
	ID() DialogID
	// Enter starts the dialog on a fresh session.
	Enter(ctx context.Context, in domain.Inbound, sess *Session) (Result, error)
	// Handle consumes one inbound message for an active session.
	Handle(ctx context.Context, in domain.Inbound, sess *Session) (Result, error)
}

// Result is what one step produced. Exit ends the dialog and drops its session.
type Result struct {
	Replies []domain.Reply
	Exit    bool
}

func stay(replies ...domain.Reply) Result {
	return Result{Replies: replies}
}

func exit(replies ...domain.Reply) Result {
	return Result{Replies: replies, Exit: true}
}

func text(s string, kb *domain.Keyboard) domain.Reply {
	return domain.Reply{Text: s, Keyboard: kb}
}

func markdown(s string, kb *domain.Keyboard) domain.Reply {
	return domain.Reply{Text: s, Markdown: true, Keyboard: kb}
}

// pickIndex resolves a 1-based index typed by the user.
func pickIndex(s string, n int) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func unknownStep(d DialogID, step any) error {
	return fmt.Errorf("%w: %s step %v", ErrUnknownStep, d, step)
}

// indexOf returns the position of step in seq, or -1.
func indexOf[S comparable](seq []S, step S) int {
	for i, s := range seq {
		if s == step {
			return i
		}
	}
	return -1
}

const msgStoreFailure = "Something went wrong while talking to the database. Please try again later."
