package server

import (
	"context"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/bastiangx/wordassist/pkg/session"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxPrefixLength = 60
	defaultLimit    = suggest.DefaultTopK
	maxLimit        = 64
)

// Server handles the IPC for one session.
type Server struct {
	loop    *eventloop.Loop
	mem     *surface.Memory
	session *session.Session
	local   *suggest.LocalDictionary

	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	logger *log.Logger

	inRequest bool
	edits     []Edit
	cancel    func()
}

// NewServer creates a server reading requests from in and writing responses
// to out. The session is built from opts; the server installs itself as its
// renderer and the loop as its poster.
func NewServer(loop *eventloop.Loop, mem *surface.Memory, local *suggest.LocalDictionary, in io.Reader, out io.Writer, opts ...session.Option) *Server {
	s := &Server{
		loop:   loop,
		mem:    mem,
		local:  local,
		dec:    msgpack.NewDecoder(in),
		enc:    msgpack.NewEncoder(out),
		logger: logger.New("server"),
	}
	opts = append(opts, session.WithRenderer(s), session.WithPoster(loop))
	if local != nil {
		opts = append([]session.Option{session.WithLocal(local)}, opts...)
	}
	s.session = session.New(mem, opts...)
	return s
}

// Session returns the driven session. Use it only on the loop goroutine.
func (s *Server) Session() *session.Session {
	return s.session
}

// Serve runs the loop and answers requests until in is exhausted or ctx is
// done.
func (s *Server) Serve(ctx context.Context) error {
	log.Debug("Starting Server.")

	go s.readLoop()
	s.loop.Post(func() {
		s.session.Attach()
		s.cancel = s.mem.Subscribe(s)
		s.write(Response{Status: "ready"})
	})

	err := s.loop.Run(ctx)
	// the loop is gone; nothing may be written from here on
	s.inRequest = true
	if s.cancel != nil {
		s.cancel()
	}
	s.session.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) readLoop() {
	defer s.loop.Stop()
	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				log.Debug("Input closed, stopping server.")
				return
			}
			s.logger.Error("Decoding request", "err", err)
			s.loop.Call(func() {
				s.write(Response{Error: "invalid msgpack request", Code: 400})
			})
			return
		}
		if !s.loop.Post(func() { s.handle(req) }) {
			return
		}
	}
}

func (s *Server) handle(req Request) {
	s.inRequest = true
	s.edits = nil
	resp := Response{ID: req.ID}
	withState := true

	switch req.Op {
	case "sync":
		s.mem.Focus()
		if err := s.mem.SetText(req.Text, req.Caret); err != nil {
			resp.Error, resp.Code = err.Error(), 400
		}
	case "select":
		resp.Handled = s.session.SelectWord(req.Caret, req.Sel)
	case "key":
		resp.Handled = s.session.KeyDown(surface.ParseKey(req.Key))
	case "hover":
		resp.Handled = s.session.Hover(req.Index)
	case "press":
		resp.Handled = s.session.Press(req.Index)
	case "focus":
		s.mem.Focus()
	case "blur":
		s.mem.Blur()
	case "state":
	case "complete":
		withState = false
		s.complete(req, &resp)
	case "health":
		withState = false
		resp.Status = "ok"
	default:
		withState = false
		resp.Error, resp.Code = "unknown op: "+req.Op, 400
	}
	s.inRequest = false

	if withState {
		resp.State = stateMessage(s.session.State())
	}
	resp.Edits = s.edits
	s.edits = nil
	s.write(resp)
}

// complete is a stateless prefix lookup against the local dictionary.
func (s *Server) complete(req Request, resp *Response) {
	prefix := req.Prefix
	if prefix == "" {
		resp.Error, resp.Code = "missing 'p' parameter", 400
		return
	}
	if utf8.RuneCountInString(prefix) > maxPrefixLength {
		resp.Error, resp.Code = "prefix exceeds maximum length of 60 characters", 400
		return
	}
	if s.local == nil {
		resp.Error, resp.Code = "no local dictionary", 503
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	start := time.Now()
	candidates := s.local.Complete(prefix, limit)
	resp.TimeTaken = time.Since(start).Microseconds()
	resp.Completions = suggestions(candidates)
	resp.Count = len(resp.Completions)
}

// Render implements session.Renderer. Changes made while answering a
// request travel with the response; the rest are pushed.
func (s *Server) Render(st session.State) {
	if s.inRequest {
		return
	}
	s.write(Response{State: stateMessage(st)})
}

// TextChanged records edits made by commits so the host can mirror them.
func (s *Server) TextChanged(c surface.Change) {
	if c.Source != surface.ChangeAPI {
		return
	}
	s.edits = append(s.edits, Edit{
		Offset:  c.Offset,
		Deleted: c.Deleted,
		Text:    c.Inserted,
		Caret:   c.Caret,
	})
}

func (s *Server) KeyDown(surface.Key) bool { return false }

func (s *Server) Blur() {}

func (s *Server) write(resp Response) {
	if err := s.enc.Encode(&resp); err != nil {
		s.logger.Error("Encoding response", "err", err)
	}
}

func stateMessage(st session.State) *State {
	msg := &State{
		Visible: st.Visible,
		Active:  st.ActiveIndex,
		X:       st.Anchor.X,
		Y:       st.Anchor.Y,
	}
	if set := st.Suggestions; set != nil {
		msg.Suggestions = suggestions(set.Candidates)
		msg.Source = set.Source.String()
		msg.Start = set.Query.Start
		msg.Length = set.Query.Length
		msg.RequestID = set.RequestID
	}
	return msg
}

func suggestions(candidates []suggest.Candidate) []Suggestion {
	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		out[i] = Suggestion{Word: c.Word, Rank: uint16(i + 1), Score: c.Score}
	}
	return out
}
