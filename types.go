// Package natsproto implements incremental, streaming parsing of the
// NATS client-side wire protocol: INFO, +OK, -ERR, PING, PONG, MSG and
// HMSG frames arriving from a transport in arbitrarily split chunks.
package natsproto

// field is a half-open byte range [Offs, Offs+Len) inside the parser's
// pending buffer. It is the argument scanner's bookkeeping type: it
// marks where the current control-line argument starts and, once the
// terminating CR is found, where it ends, without copying anything
// until the caller actually needs the bytes.
//
// A field may stay live across several Feed calls when an argument line
// arrives in pieces. Its offsets stay valid because the pending buffer
// is compacted only once the parser is back in the idle state, when no
// field is in use.
type field struct {
	Offs int
	Len  int
}

// set starts a field at start, initially empty.
func (f *field) set(start int) {
	f.Offs = start
	f.Len = 0
}

// extend grows a field so it ends at end (end is the first byte after
// the field, e.g. the position of the terminating CR).
func (f *field) extend(end int) {
	if end < f.Offs {
		panic("natsproto: field end before start")
	}
	f.Len = end - f.Offs
}

// empty reports whether the field has zero length.
func (f field) empty() bool {
	return f.Len == 0
}

// get returns the byte slice buf[Offs:Offs+Len].
func (f field) get(buf []byte) []byte {
	return buf[f.Offs : f.Offs+f.Len]
}
