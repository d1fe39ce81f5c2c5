package surface

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrOutOfRange is returned for edits that fall outside the document.
var ErrOutOfRange = errors.New("range outside document")

// Memory is a plain-text surface held in memory with a monospace layout.
// It backs the debug CLI and the IPC host and is used in tests.
//
// Memory is not safe for concurrent use; drive it from one goroutine.
type Memory struct {
	runes   []rune
	sel     Selection
	focused bool

	cellWidth  int
	cellHeight int
	root       Rect

	handlers []subscription
	nextID   int
	version  uint64
}

type subscription struct {
	id int
	h  Handler
}

// MemoryOption configures a Memory surface.
type MemoryOption func(*Memory)

// WithCellSize sets the width and height of one character cell in pixels.
func WithCellSize(width, height int) MemoryOption {
	return func(m *Memory) {
		if width > 0 {
			m.cellWidth = width
		}
		if height > 0 {
			m.cellHeight = height
		}
	}
}

// WithRoot sets the page rectangle of the surface's root element.
func WithRoot(r Rect) MemoryOption {
	return func(m *Memory) {
		m.root = r
	}
}

// NewMemory returns a focused, empty surface.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		focused:    true,
		cellWidth:  8,
		cellHeight: 18,
		root:       Rect{Width: 640, Height: 300},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Selection() (Selection, bool) {
	return m.sel, m.focused
}

func (m *Memory) Len() int {
	return len(m.runes)
}

// String returns the whole document.
func (m *Memory) String() string {
	return string(m.runes)
}

// Version increases with every change.
func (m *Memory) Version() uint64 {
	return m.version
}

// Text returns the runes in [offset, offset+length), clipped to the document.
func (m *Memory) Text(offset, length int) string {
	start, end := m.clip(offset, offset+length)
	return string(m.runes[start:end])
}

func (m *Memory) Replace(offset, length int, text string, caret int) error {
	return m.apply(offset, length, text, caret, ChangeAPI)
}

// Type inserts text over the current selection as if typed by the user.
func (m *Memory) Type(text string) error {
	caret := m.sel.Index + utf8.RuneCountInString(text)
	return m.apply(m.sel.Index, m.sel.Length, text, caret, ChangeUser)
}

// SetText replaces the whole document, as a host sync would.
func (m *Memory) SetText(text string, caret int) error {
	return m.apply(0, len(m.runes), text, caret, ChangeUser)
}

// SetCaret collapses the selection at index. No change is emitted.
func (m *Memory) SetCaret(index int) {
	m.sel = Selection{Index: clamp(index, 0, len(m.runes))}
}

// Select sets a selection without emitting a change.
func (m *Memory) Select(index, length int) {
	start, end := m.clip(index, index+length)
	m.sel = Selection{Index: start, Length: end - start}
}

// Focus gives the surface focus.
func (m *Memory) Focus() {
	m.focused = true
}

// Blur removes focus and notifies handlers.
func (m *Memory) Blur() {
	if !m.focused {
		return
	}
	m.focused = false
	for _, s := range m.snapshot() {
		s.h.Blur()
	}
}

// Press offers key to the handlers and, unless one of them consumed it,
// applies the default editing behaviour. It reports whether a handler
// consumed the key.
func (m *Memory) Press(key Key) (bool, error) {
	for _, s := range m.snapshot() {
		if s.h.KeyDown(key) {
			return true, nil
		}
	}
	return false, m.defaultKey(key)
}

func (m *Memory) defaultKey(key Key) error {
	switch key {
	case KeyBackspace:
		if m.sel.Length > 0 {
			return m.apply(m.sel.Index, m.sel.Length, "", m.sel.Index, ChangeUser)
		}
		if m.sel.Index == 0 {
			return nil
		}
		return m.apply(m.sel.Index-1, 1, "", m.sel.Index-1, ChangeUser)
	case KeyArrowLeft:
		m.SetCaret(m.sel.Index - 1)
	case KeyArrowRight:
		m.SetCaret(m.sel.Index + m.sel.Length + 1)
	case KeyEnter:
		return m.Type("\n")
	case KeyTab:
		return m.Type("\t")
	case KeyArrowUp, KeyArrowDown, KeyEscape, KeyCtrlSpace:
	default:
		if utf8.RuneCountInString(string(key)) == 1 {
			return m.Type(string(key))
		}
	}
	return nil
}

func (m *Memory) Subscribe(h Handler) func() {
	m.nextID++
	id := m.nextID
	m.handlers = append(m.handlers, subscription{id: id, h: h})
	return func() {
		for i, s := range m.handlers {
			if s.id == id {
				m.handlers = append(m.handlers[:i:i], m.handlers[i+1:]...)
				return
			}
		}
	}
}

// Bounds returns the box of [offset, offset+length) relative to the root
// element. A zero length gives a zero-width box at offset.
func (m *Memory) Bounds(offset, length int) Rect {
	start, end := m.clip(offset, offset+length)
	startLine, startCol := m.lineCol(start)
	endLine, endCol := m.lineCol(end)

	if startLine == endLine {
		return Rect{
			Left:   startCol * m.cellWidth,
			Top:    startLine * m.cellHeight,
			Width:  (endCol - startCol) * m.cellWidth,
			Height: m.cellHeight,
		}
	}

	widest, col := 0, startCol
	for _, r := range m.runes[start:end] {
		if r == '\n' {
			widest = max(widest, col)
			col = 0
			continue
		}
		col++
	}
	widest = max(widest, col)
	return Rect{
		Left:   0,
		Top:    startLine * m.cellHeight,
		Width:  widest * m.cellWidth,
		Height: (endLine - startLine + 1) * m.cellHeight,
	}
}

func (m *Memory) RootRect() Rect {
	return m.root
}

func (m *Memory) apply(offset, length int, text string, caret int, source ChangeSource) error {
	if offset < 0 || length < 0 || offset+length > len(m.runes) {
		return errors.Wrapf(ErrOutOfRange, "replace [%d, %d) in document of %d", offset, offset+length, len(m.runes))
	}
	inserted := []rune(text)
	newLen := len(m.runes) - length + len(inserted)
	if caret < 0 || caret > newLen {
		return errors.Wrapf(ErrOutOfRange, "caret %d in document of %d", caret, newLen)
	}

	next := make([]rune, 0, newLen)
	next = append(next, m.runes[:offset]...)
	next = append(next, inserted...)
	next = append(next, m.runes[offset+length:]...)
	m.runes = next
	m.sel = Selection{Index: caret}
	m.version++

	change := Change{
		Offset:   offset,
		Deleted:  length,
		Inserted: text,
		Caret:    caret,
		Source:   source,
	}
	for _, s := range m.snapshot() {
		s.h.TextChanged(change)
	}
	return nil
}

func (m *Memory) snapshot() []subscription {
	out := make([]subscription, len(m.handlers))
	copy(out, m.handlers)
	return out
}

func (m *Memory) lineCol(offset int) (line, col int) {
	for _, r := range m.runes[:offset] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

func (m *Memory) clip(start, end int) (int, int) {
	start = clamp(start, 0, len(m.runes))
	end = clamp(end, start, len(m.runes))
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
