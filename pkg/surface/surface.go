// Package surface describes the editable text widget the autocomplete
// engine works against, and provides an in-memory implementation of it.
//
// Offsets and lengths are counted in runes of the plain-text content.
package surface

import "strings"

// Selection is the caret (Length == 0) or a selected range.
type Selection struct {
	Index  int
	Length int
}

// Collapsed reports whether the selection is a plain caret.
func (s Selection) Collapsed() bool {
	return s.Length == 0
}

// Rect is a pixel rectangle. For Bounds it is relative to the surface's
// root element, for RootRect it is in page coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// ChangeSource tells who produced a change.
type ChangeSource int

const (
	// ChangeUser is typing, pasting or a host sync.
	ChangeUser ChangeSource = iota
	// ChangeAPI is a programmatic edit through Replace.
	ChangeAPI
)

func (c ChangeSource) String() string {
	if c == ChangeAPI {
		return "api"
	}
	return "user"
}

// Change is one logical edit: Deleted runes removed at Offset, Inserted put
// in their place, caret moved to Caret.
type Change struct {
	Offset   int
	Deleted  int
	Inserted string
	Caret    int
	Source   ChangeSource
}

// Key names a keyboard key. Printable keys are their own character.
type Key string

const (
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyEnter      Key = "Enter"
	KeyTab        Key = "Tab"
	KeyEscape     Key = "Escape"
	KeyBackspace  Key = "Backspace"
	KeySpace      Key = " "
	KeyCtrlSpace  Key = "Ctrl+Space"
)

var keyAliases = map[string]Key{
	"down":       KeyArrowDown,
	"arrowdown":  KeyArrowDown,
	"up":         KeyArrowUp,
	"arrowup":    KeyArrowUp,
	"left":       KeyArrowLeft,
	"arrowleft":  KeyArrowLeft,
	"right":      KeyArrowRight,
	"arrowright": KeyArrowRight,
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"tab":        KeyTab,
	"esc":        KeyEscape,
	"escape":     KeyEscape,
	"bs":         KeyBackspace,
	"backspace":  KeyBackspace,
	"space":      KeySpace,
	"ctrl+space": KeyCtrlSpace,
}

// ParseKey maps a case-insensitive key name ("down", "ctrl+space", "Tab")
// to a Key. Anything unknown is returned as-is.
func ParseKey(name string) Key {
	if k, ok := keyAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return Key(name)
}

// Handler receives events from a surface.
type Handler interface {
	// TextChanged is called once per logical edit, after it is applied.
	TextChanged(Change)
	// KeyDown is called before the surface's default key handling. Returning
	// true suppresses the default.
	KeyDown(Key) bool
	// Blur is called when the surface loses focus.
	Blur()
}

// Surface is the capability the engine needs from an editing widget.
type Surface interface {
	// Selection returns the caret or selection; ok is false without focus.
	Selection() (sel Selection, ok bool)
	Len() int
	Text(offset, length int) string
	// Replace removes [offset, offset+length), inserts text there and puts
	// the caret at caret, emitting exactly one change.
	Replace(offset, length int, text string, caret int) error
	Bounds(offset, length int) Rect
	RootRect() Rect
	// Subscribe registers h until cancel is called.
	Subscribe(h Handler) (cancel func())
}
