// Package console runs the chat in a terminal for local development.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

// actionPrefix marks a line as an inline button press, e.g. "!confirm".
const actionPrefix = "!"

type MessageHandler interface {
	HandleMessage(ctx context.Context, in domain.Inbound) ([]domain.Reply, error)
}

// Console is a line-based chat client for one fixed profile.
type Console struct {
	handler MessageHandler
	profile domain.Profile
	reader  *bufio.Reader
	writer  io.Writer
	fd      int // -1 when input is not a terminal
}

// New reads from stdin and writes to stdout.
func New(handler MessageHandler, profile domain.Profile) *Console {
	c := NewWithIO(handler, profile, os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	return c
}

// NewWithIO creates a console over custom IO. Secret input is echoed.
func NewWithIO(handler MessageHandler, profile domain.Profile, r io.Reader, w io.Writer) *Console {
	return &Console{
		handler: handler,
		profile: profile,
		reader:  bufio.NewReader(r),
		writer:  w,
		fd:      -1,
	}
}

// Run reads lines until EOF or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	log := observability.LoggerFromContext(ctx)
	c.println("Type /start to begin. Press a button with !<action>, e.g. !confirm. Ctrl-D quits.")

	secret := false
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := c.readLine(secret)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			continue
		}

		replies, err := c.handler.HandleMessage(ctx, c.inbound(line))
		if err != nil {
			log.Error("failed to handle console message", "error", err)
			c.println("❌ Error: " + err.Error())
			continue
		}

		secret = false
		for _, r := range replies {
			c.show(r)
			secret = r.Secret
		}
	}
}

func (c *Console) inbound(line string) domain.Inbound {
	in := domain.Inbound{Profile: c.profile, Timestamp: time.Now()}
	if action, ok := strings.CutPrefix(line, actionPrefix); ok && action != "" {
		in.Action = action
	} else {
		in.Text = line
	}
	return in
}

func (c *Console) readLine(secret bool) (string, error) {
	_, _ = fmt.Fprint(c.writer, "> ")

	if secret && c.fd >= 0 {
		b, err := term.ReadPassword(c.fd)
		c.println("")
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := c.reader.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) show(r domain.Reply) {
	c.println(r.Text)
	if r.Keyboard == nil {
		return
	}

	for _, row := range r.Keyboard.Rows {
		c.println("  [" + strings.Join(row, "] [") + "]")
	}
	for _, row := range r.Keyboard.Inline {
		buttons := make([]string, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, fmt.Sprintf("[%s %s%s]", b.Text, actionPrefix, b.Data))
		}
		c.println("  " + strings.Join(buttons, " "))
	}
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.writer, s)
}
