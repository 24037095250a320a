/*
Package server implements msgpack IPC for term recognition and suggestion
ranking.

The server reads a stream of msgpack-encoded requests from stdin and writes
one msgpack response per request to stdout. Each request carries an ID, an
op selector, and the fields that op needs:

	{"id": "r1", "op": "recognize", "text": "函数的导数是什么"}
	{"id": "s1", "op": "suggest", "p": "导", "l": 10}
	{"id": "k1", "op": "rank", "q": "导数", "sug": [...], "ctx": {...}}
	{"id": "f1", "op": "feedback", "q": "导数", "sel": {...}}
	{"id": "h1", "op": "health"}

Recognize responds with the occurrence list, suggest and rank with ranked
suggestions, feedback and health with a status frame. Failures come back as
error frames carrying the request ID, a code, and a message; the server
itself never exits on a bad request.
*/
package server

import "github.com/mathserve/mathserve/pkg/term"

// Request is one incoming frame. Op decides which fields matter.
type Request struct {
	ID          string            `msgpack:"id"`
	Op          string            `msgpack:"op"`
	Text        string            `msgpack:"text,omitempty"`
	Prefix      string            `msgpack:"p,omitempty"`
	Limit       int               `msgpack:"l,omitempty"`
	Query       string            `msgpack:"q,omitempty"`
	Suggestions []term.Suggestion `msgpack:"sug,omitempty"`
	Context     *term.Context     `msgpack:"ctx,omitempty"`
	Selected    *term.Suggestion  `msgpack:"sel,omitempty"`
}

// RecognizeResponse answers a recognize request.
type RecognizeResponse struct {
	ID          string            `msgpack:"id"`
	Occurrences []term.Occurrence `msgpack:"occ"`
	Count       int               `msgpack:"c"`
	TimeTaken   int64             `msgpack:"t"`
}

// RankResponse answers suggest and rank requests.
type RankResponse struct {
	ID          string                  `msgpack:"id"`
	Suggestions []term.RankedSuggestion `msgpack:"s"`
	Count       int                     `msgpack:"c"`
	Degraded    bool                    `msgpack:"deg,omitempty"`
	TimeTaken   int64                   `msgpack:"t"`
}

// StatusResponse answers feedback and health requests.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
