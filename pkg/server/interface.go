/*
Package server drives an autocomplete session over msgpack IPC.

An editor process (the host) owns the real text widget. It mirrors the text
and caret into the server and forwards key and pointer events; the server
answers with the overlay state and, when a suggestion is committed, the
edit the host must apply to its own buffer.

# IPC

Requests and responses are consecutive msgpack maps on stdin and stdout.
Every request carries an op and an optional id that is echoed back:

	{"id": "1", "op": "sync", "text": "sa ma", "caret": 5}
	{"id": "2", "op": "key", "key": "ArrowDown"}
	{"id": "3", "op": "key", "key": "Enter"}

The reply to the last one reports that the key was consumed, the idle
state and the edit to apply:

	{"id": "3", "h": true, "s": {"v": false, ...}, "e": [{"o": 3, "n": 2, "t": "manampy ", "c": 11}]}

Ops: sync, select (caret = start, sel = length), key, hover (i), press (i),
focus, blur, state, complete (stateless prefix completion: p, l) and health.

Remote suggestions arrive after the request that asked for them has been
answered. They are pushed as a response with an empty id.

On startup the server writes {"status": "ready"}.
*/
package server

// Request is one message from the host.
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op"`
	Text   string `msgpack:"text,omitempty"`
	Caret  int    `msgpack:"caret,omitempty"`
	Sel    int    `msgpack:"sel,omitempty"`
	Key    string `msgpack:"key,omitempty"`
	Index  int    `msgpack:"i,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// Suggestion is one overlay entry. Rank starts at 1.
type Suggestion struct {
	Word  string   `msgpack:"w"`
	Rank  uint16   `msgpack:"r"`
	Score *float64 `msgpack:"sc,omitempty"`
}

// State mirrors session.State for the host's overlay renderer.
type State struct {
	Visible     bool         `msgpack:"v"`
	Active      int          `msgpack:"a"`
	Suggestions []Suggestion `msgpack:"s,omitempty"`
	Source      string       `msgpack:"src,omitempty"`
	Start       int          `msgpack:"o"`
	Length      int          `msgpack:"n"`
	X           int          `msgpack:"x"`
	Y           int          `msgpack:"y"`
	RequestID   uint64       `msgpack:"rid"`
}

// Edit is a change the host must apply: replace Deleted runes at Offset
// with Text, then put the caret at Caret.
type Edit struct {
	Offset  int    `msgpack:"o"`
	Deleted int    `msgpack:"n"`
	Text    string `msgpack:"t"`
	Caret   int    `msgpack:"c"`
}

// Response answers a request, or pushes a state change when ID is empty.
type Response struct {
	ID          string       `msgpack:"id"`
	Handled     bool         `msgpack:"h"`
	State       *State       `msgpack:"s,omitempty"`
	Edits       []Edit       `msgpack:"e,omitempty"`
	Completions []Suggestion `msgpack:"w,omitempty"`
	Count       int          `msgpack:"c,omitempty"`
	TimeTaken   int64        `msgpack:"t,omitempty"`
	Status      string       `msgpack:"status,omitempty"`
	Error       string       `msgpack:"err,omitempty"`
	Code        int          `msgpack:"code,omitempty"`
}
