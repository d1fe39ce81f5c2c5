package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/bastiangx/wordassist/pkg/session"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mem     *surface.Memory
	session *session.Session
	handler *InputHandler
	out     *bytes.Buffer
}

func newFixture(loop *eventloop.Loop) *fixture {
	out := &bytes.Buffer{}
	mem := surface.NewMemory()
	view := NewOverlay(out, mem)
	opts := []session.Option{
		session.WithLocal(suggest.NewLocalDictionary([]string{"manao", "manampy"})),
		session.WithRenderer(view),
		session.WithLogger(logger.Discard()),
	}
	if loop != nil {
		opts = append(opts, session.WithPoster(loop))
	}
	sess := session.New(mem, opts...)
	h := NewInputHandler(loop, mem, sess, view, out)
	h.logger = logger.Discard()
	return &fixture{mem: mem, session: sess, handler: h, out: out}
}

func TestStartTypesNavigatesAndCommits(t *testing.T) {
	f := newFixture(eventloop.New(8))
	in := strings.NewReader("sa ma\n\n:down\n:enter\n:bogus\n:show\n")

	require.NoError(t, f.handler.Start(context.Background(), in))
	assert.Equal(t, "sa manampy ", f.mem.String())

	out := f.out.String()
	assert.Contains(t, out, "wordassist CLI")
	assert.Contains(t, out, "> manao")
	assert.Contains(t, out, "> manampy")
	assert.Contains(t, out, "@ 45,0")
	assert.Contains(t, out, "sa manampy |")
}

func TestExecCommands(t *testing.T) {
	f := newFixture(nil)
	f.session.Attach()

	require.NoError(t, f.handler.Exec("ma"))
	require.True(t, f.session.State().Visible)

	require.NoError(t, f.handler.Exec(":hover 1"))
	assert.Equal(t, 1, f.session.State().ActiveIndex)

	err := f.handler.Exec(":press 5")
	assert.Error(t, err)

	require.NoError(t, f.handler.Exec(":esc"))
	assert.False(t, f.session.State().Visible)
	assert.Equal(t, "ma", f.mem.String(), "escape is not typed")

	require.NoError(t, f.handler.Exec(":bs"))
	assert.Equal(t, "m", f.mem.String())
	assert.True(t, f.session.State().Visible)

	require.NoError(t, f.handler.Exec(":press 0"))
	assert.Equal(t, "manao ", f.mem.String())

	require.NoError(t, f.handler.Exec(":select 0 5"))
	assert.True(t, f.session.State().Visible)
	assert.Contains(t, f.out.String(), "[manao]")

	require.NoError(t, f.handler.Exec(":blur"))
	assert.False(t, f.session.State().Visible)

	require.NoError(t, f.handler.Exec(":focus"))
	require.NoError(t, f.handler.Exec(":clear"))
	assert.Empty(t, f.mem.String())
}

func TestExecErrors(t *testing.T) {
	f := newFixture(nil)
	f.session.Attach()

	testCases := []struct {
		line    string
		unknown bool
	}{
		{":", true},
		{":jump", true},
		{":hover", false},
		{":hover x", false},
		{":select 1", false},
		{":select 0 0", false},
		{":remote", false},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			err := f.handler.Exec(tc.line)
			require.Error(t, err)
			assert.Equal(t, tc.unknown, errors.Is(err, ErrUnknownCommand))
		})
	}
}

func TestHelpAndSpace(t *testing.T) {
	f := newFixture(nil)
	f.session.Attach()

	require.NoError(t, f.handler.Exec(":help"))
	assert.Contains(t, f.out.String(), ":select START LEN")

	require.NoError(t, f.handler.Exec("sa"))
	require.NoError(t, f.handler.Exec(":space"))
	assert.Equal(t, "sa ", f.mem.String())
}

func TestOverlayView(t *testing.T) {
	mem := surface.NewMemory()
	require.NoError(t, mem.SetText("ab", 1))
	view := NewOverlay(&bytes.Buffer{}, mem)

	assert.Contains(t, view.View(session.State{}), "a|b")

	score := 0.75
	st := session.State{
		Visible:     true,
		ActiveIndex: 0,
		Suggestions: &suggest.Set{
			Source:     suggest.SourceRemote,
			Candidates: []suggest.Candidate{{Word: "abo", Score: &score}},
			RequestID:  4,
		},
	}
	out := view.View(st)
	assert.Contains(t, out, "> abo  0.75")
	assert.Contains(t, out, "remote #4")

	mem.Blur()
	assert.NotContains(t, view.View(session.State{}), "|")
}
