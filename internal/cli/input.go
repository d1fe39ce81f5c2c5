// Package cli drives an autocomplete session from stdin for debugging.
//
// Plain lines are typed into an in-memory document at the caret. Lines
// starting with ':' are commands that press keys or act like the pointer:
//
//	sa ma
//	:down
//	:enter
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/bastiangx/wordassist/pkg/session"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// ErrUnknownCommand is returned for ':' lines that are not commands.
var ErrUnknownCommand = errors.New("unknown command")

const help = `commands:
  <text>              type text at the caret
  :space :bs          type a space, backspace
  :down :up :left :right :enter :tab :esc :ctrl+space
  :hover N :press N   point at or click candidate N (from 0)
  :select START LEN   select a word and query it
  :remote             ask the similarity service about the caret word
  :focus :blur :clear :show :help`

// InputHandler reads lines and applies them to the session's surface on
// the loop goroutine.
type InputHandler struct {
	loop    *eventloop.Loop
	mem     *surface.Memory
	session *session.Session
	view    *Overlay
	out     io.Writer
	logger  *log.Logger
}

// NewInputHandler wires a handler to an already configured session. The
// session should use view as its renderer and loop as its poster.
func NewInputHandler(loop *eventloop.Loop, mem *surface.Memory, sess *session.Session, view *Overlay, out io.Writer) *InputHandler {
	return &InputHandler{
		loop:    loop,
		mem:     mem,
		session: sess,
		view:    view,
		out:     out,
		logger:  logger.Default("cli"),
	}
}

// Start runs the loop and feeds it lines from in until in is exhausted or
// ctx is done.
func (h *InputHandler) Start(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- h.loop.Run(ctx) }()

	h.loop.Call(func() {
		h.session.Attach()
		fmt.Fprintln(h.out, "wordassist CLI [BETA]")
		fmt.Fprintln(h.out, "type some text, ':help' lists commands (Ctrl+D to exit)")
	})

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var err error
		if !h.loop.Call(func() { err = h.Exec(line) }) {
			break
		}
		if err != nil {
			h.logger.Error(err)
		}
	}

	h.loop.Call(h.session.Close)
	cancel()
	if err := <-loopErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return scanner.Err()
}

// Exec applies one input line and draws the resulting view. It must run on
// the loop goroutine.
func (h *InputHandler) Exec(line string) error {
	h.view.held = true
	err := h.exec(line)
	h.view.held = false
	if err == nil {
		h.view.Draw(h.session.State())
	}
	return err
}

func (h *InputHandler) exec(line string) error {
	if !strings.HasPrefix(line, ":") {
		return h.mem.Type(line)
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return errors.Wrap(ErrUnknownCommand, line)
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	log.Debug("Processing command", "cmd", cmd, "args", args)

	switch cmd {
	case "space":
		return h.mem.Type(" ")
	case "bs", "down", "up", "left", "right", "enter", "tab", "esc", "ctrl+space":
		_, err := h.mem.Press(surface.ParseKey(cmd))
		return err
	case "hover", "press":
		i, err := intArgs(args, 1)
		if err != nil {
			return err
		}
		var ok bool
		if cmd == "hover" {
			ok = h.session.Hover(i[0])
		} else {
			ok = h.session.Press(i[0])
		}
		if !ok {
			return errors.Newf("no candidate %d", i[0])
		}
	case "select":
		i, err := intArgs(args, 2)
		if err != nil {
			return err
		}
		h.mem.Select(i[0], i[1])
		if !h.session.SelectWord(i[0], i[1]) {
			return errors.Newf("no word in selection %d+%d", i[0], i[1])
		}
	case "remote":
		if !h.session.TriggerRemote() {
			return errors.New("no word at the caret")
		}
	case "focus":
		h.mem.Focus()
	case "blur":
		h.mem.Blur()
	case "clear":
		return h.mem.SetText("", 0)
	case "show":
	case "help":
		fmt.Fprintln(h.out, help)
	default:
		return errors.Wrap(ErrUnknownCommand, cmd)
	}
	return nil
}

func intArgs(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, errors.Newf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.Wrapf(err, "bad number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
