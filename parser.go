package natsproto

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// maxControlLine bounds any non-payload line (the verb plus its
// argument, up to and including CR) so a peer that never sends CRLF
// cannot make the parser buffer without limit.
const maxControlLine = 4096

// pstate is a state of the frame parser.
type pstate uint8

const (
	stateOpStart pstate = iota
	stateOpPlus
	stateOpPlusO
	stateOpPlusOK
	stateOpMinus
	stateOpMinusE
	stateOpMinusEr
	stateOpMinusErr
	stateOpMinusErrSpc
	stateMinusErrArg
	stateOpM
	stateOpMs
	stateOpMsg
	stateOpMsgSpc
	stateMsgArg
	stateMsgEnd
	stateMsgPayload
	stateOpH
	stateOpHm
	stateOpHms
	stateOpHmsg
	stateOpHmsgSpc
	stateHmsgArg
	stateHmsgEnd
	stateHmsgPayload
	stateOpP
	stateOpPi
	stateOpPin
	stateOpPing
	stateOpPo
	stateOpPon
	stateOpPong
	stateOpI
	stateOpIn
	stateOpInf
	stateOpInfo
	stateOpInfoSpc
	stateInfoArg
	stateOpEnd
)

// pendingVerb records which simple completion stateOpEnd is about to
// flush, since +OK, PING, PONG, -ERR and INFO all funnel through the
// same trailing "\r\n" state.
type pendingVerb uint8

const (
	pendingNone pendingVerb = iota
	pendingOK
	pendingPing
	pendingPong
	pendingErr
	pendingInfo
)

// Parser incrementally parses a stream of NATS client-side protocol
// bytes, possibly delivered in arbitrarily small or large chunks, into
// a sequence of Events. It is not safe for concurrent use.
type Parser struct {
	buf []byte
	pos int

	state      pstate
	frameStart int
	pending    pendingVerb
	arg        field

	msg  msgArgs
	hmsg hmsgArgs

	events []Event
	closed bool
}

// NewParser returns a Parser ready to accept bytes via Feed.
func NewParser() *Parser {
	return &Parser{state: stateOpStart}
}

// Feed appends data to the parser's pending buffer and advances the
// state machine as far as it will go. Complete frames are appended to
// the internal event queue; drain them with DrainEvents. Feed returns
// ErrClosed if called after Close, or ErrProtocol on any grammar
// violation, in which case the Parser must be discarded.
func (p *Parser) Feed(data []byte) error {
	if p.closed {
		return ErrClosed
	}
	p.buf = append(p.buf, data...)
	if err := p.run(); err != nil {
		return err
	}
	p.compact()
	return nil
}

// DrainEvents returns the events accumulated since the last call and
// clears the queue.
func (p *Parser) DrainEvents() []Event {
	if len(p.events) == 0 {
		return nil
	}
	out := p.events
	p.events = nil
	return out
}

// Close marks the parser closed. Any further Feed call returns
// ErrClosed.
func (p *Parser) Close() {
	p.closed = true
}

// compact drops already-consumed bytes once the parser is back at the
// frame boundary (stateOpStart). Compacting at any other state would
// invalidate frameStart or arg, which hold offsets into the buffer
// that are still in flight.
func (p *Parser) compact() {
	if p.state != stateOpStart || p.pos == 0 {
		return
	}
	n := copy(p.buf, p.buf[p.pos:])
	p.buf = p.buf[:n]
	p.pos = 0
}

// run drives the state machine over whatever bytes are available,
// stopping when it would need a byte that hasn't arrived yet.
func (p *Parser) run() error {
	for {
		switch p.state {
		case stateMsgPayload:
			done, err := p.consumeMsgPayload()
			if err != nil {
				return err
			}
			if !done {
				return nil
			}
		case stateHmsgPayload:
			done, err := p.consumeHMsgPayload()
			if err != nil {
				return err
			}
			if !done {
				return nil
			}
		default:
			if p.pos >= len(p.buf) {
				return nil
			}
			if p.state != stateOpStart && p.pos-p.frameStart >= maxControlLine {
				return ErrProtocol
			}
			if err := p.step(p.buf[p.pos]); err != nil {
				return err
			}
		}
	}
}

// lower reports whether c, case-folded, equals want (want must already
// be lowercase).
func lower(c, want byte) bool {
	return bytescase.ByteToLower(c) == want
}

// step processes exactly one byte of control-line input and advances
// p.pos and p.state accordingly. Most branches consume the byte; a few
// (the *Spc states, on seeing the first non-space byte) only transition
// and leave the byte for the next state to reprocess.
func (p *Parser) step(c byte) error {
	switch p.state {
	case stateOpStart:
		p.frameStart = p.pos
		switch bytescase.ByteToLower(c) {
		case '+':
			p.state = stateOpPlus
		case '-':
			p.state = stateOpMinus
		case 'm':
			p.state = stateOpM
		case 'h':
			p.state = stateOpH
		case 'p':
			p.state = stateOpP
		case 'i':
			p.state = stateOpI
		default:
			return ErrProtocol
		}
		p.pos++
		return nil

	// +OK
	case stateOpPlus:
		if !lower(c, 'o') {
			return ErrProtocol
		}
		p.state = stateOpPlusO
		p.pos++
		return nil
	case stateOpPlusO:
		if !lower(c, 'k') {
			return ErrProtocol
		}
		p.state = stateOpPlusOK
		p.pending = pendingOK
		p.pos++
		return nil
	case stateOpPlusOK:
		return p.expectEOL(c)

	// -ERR
	case stateOpMinus:
		if !lower(c, 'e') {
			return ErrProtocol
		}
		p.state = stateOpMinusE
		p.pos++
		return nil
	case stateOpMinusE:
		if !lower(c, 'r') {
			return ErrProtocol
		}
		p.state = stateOpMinusEr
		p.pos++
		return nil
	case stateOpMinusEr:
		if !lower(c, 'r') {
			return ErrProtocol
		}
		p.state = stateOpMinusErr
		p.pos++
		return nil
	case stateOpMinusErr:
		if c != ' ' {
			return ErrProtocol
		}
		p.state = stateOpMinusErrSpc
		p.pos++
		return nil
	case stateOpMinusErrSpc:
		if c == ' ' {
			p.pos++
			return nil
		}
		p.arg.set(p.pos)
		p.state = stateMinusErrArg
		return nil
	case stateMinusErrArg:
		switch c {
		case '\r':
			p.arg.extend(p.pos)
			p.pending = pendingErr
			p.state = stateOpEnd
			p.pos++
			return nil
		case '\n':
			return ErrProtocol
		default:
			p.pos++
			return nil
		}

	// MSG
	case stateOpM:
		if !lower(c, 's') {
			return ErrProtocol
		}
		p.state = stateOpMs
		p.pos++
		return nil
	case stateOpMs:
		if !lower(c, 'g') {
			return ErrProtocol
		}
		p.state = stateOpMsg
		p.pos++
		return nil
	case stateOpMsg:
		if c != ' ' {
			return ErrProtocol
		}
		p.state = stateOpMsgSpc
		p.pos++
		return nil
	case stateOpMsgSpc:
		if c == ' ' {
			p.pos++
			return nil
		}
		p.arg.set(p.pos)
		p.state = stateMsgArg
		return nil
	case stateMsgArg:
		switch c {
		case '\r':
			p.arg.extend(p.pos)
			p.state = stateMsgEnd
			p.pos++
			return nil
		case '\n':
			return ErrProtocol
		default:
			p.pos++
			return nil
		}
	case stateMsgEnd:
		if c != '\n' {
			return ErrProtocol
		}
		args, err := parseMsgArgs(p.arg.get(p.buf))
		if err != nil {
			return err
		}
		p.msg = args
		p.pos++
		p.state = stateMsgPayload
		return nil

	// HMSG
	case stateOpH:
		if !lower(c, 'm') {
			return ErrProtocol
		}
		p.state = stateOpHm
		p.pos++
		return nil
	case stateOpHm:
		if !lower(c, 's') {
			return ErrProtocol
		}
		p.state = stateOpHms
		p.pos++
		return nil
	case stateOpHms:
		if !lower(c, 'g') {
			return ErrProtocol
		}
		p.state = stateOpHmsg
		p.pos++
		return nil
	case stateOpHmsg:
		if c != ' ' {
			return ErrProtocol
		}
		p.state = stateOpHmsgSpc
		p.pos++
		return nil
	case stateOpHmsgSpc:
		if c == ' ' {
			p.pos++
			return nil
		}
		p.arg.set(p.pos)
		p.state = stateHmsgArg
		return nil
	case stateHmsgArg:
		switch c {
		case '\r':
			p.arg.extend(p.pos)
			p.state = stateHmsgEnd
			p.pos++
			return nil
		case '\n':
			return ErrProtocol
		default:
			p.pos++
			return nil
		}
	case stateHmsgEnd:
		if c != '\n' {
			return ErrProtocol
		}
		args, err := parseHMsgArgs(p.arg.get(p.buf))
		if err != nil {
			return err
		}
		p.hmsg = args
		p.pos++
		p.state = stateHmsgPayload
		return nil

	// PING / PONG
	case stateOpP:
		switch bytescase.ByteToLower(c) {
		case 'i':
			p.state = stateOpPi
		case 'o':
			p.state = stateOpPo
		default:
			return ErrProtocol
		}
		p.pos++
		return nil
	case stateOpPi:
		if !lower(c, 'n') {
			return ErrProtocol
		}
		p.state = stateOpPin
		p.pos++
		return nil
	case stateOpPin:
		if !lower(c, 'g') {
			return ErrProtocol
		}
		p.state = stateOpPing
		p.pending = pendingPing
		p.pos++
		return nil
	case stateOpPing:
		return p.expectEOL(c)
	case stateOpPo:
		if !lower(c, 'n') {
			return ErrProtocol
		}
		p.state = stateOpPon
		p.pos++
		return nil
	case stateOpPon:
		if !lower(c, 'g') {
			return ErrProtocol
		}
		p.state = stateOpPong
		p.pending = pendingPong
		p.pos++
		return nil
	case stateOpPong:
		return p.expectEOL(c)

	// INFO
	case stateOpI:
		if !lower(c, 'n') {
			return ErrProtocol
		}
		p.state = stateOpIn
		p.pos++
		return nil
	case stateOpIn:
		if !lower(c, 'f') {
			return ErrProtocol
		}
		p.state = stateOpInf
		p.pos++
		return nil
	case stateOpInf:
		if !lower(c, 'o') {
			return ErrProtocol
		}
		p.state = stateOpInfo
		p.pos++
		return nil
	case stateOpInfo:
		if c != ' ' {
			return ErrProtocol
		}
		p.state = stateOpInfoSpc
		p.pos++
		return nil
	case stateOpInfoSpc:
		if c == ' ' {
			p.pos++
			return nil
		}
		p.arg.set(p.pos)
		p.state = stateInfoArg
		return nil
	case stateInfoArg:
		switch c {
		case '\r':
			p.arg.extend(p.pos)
			p.pending = pendingInfo
			p.state = stateOpEnd
			p.pos++
			return nil
		case '\n':
			return ErrProtocol
		default:
			p.pos++
			return nil
		}

	case stateOpEnd:
		if c != '\n' {
			return ErrProtocol
		}
		p.pos++
		ev, err := p.finishPending()
		if err != nil {
			return err
		}
		p.events = append(p.events, ev)
		p.pending = pendingNone
		p.state = stateOpStart
		return nil
	}
	return ErrProtocol
}

// expectEOL handles the trailing "[SP...]CR" shared by +OK, PING and
// PONG, none of which carry an argument.
func (p *Parser) expectEOL(c byte) error {
	switch c {
	case ' ':
		p.pos++
		return nil
	case '\r':
		p.state = stateOpEnd
		p.pos++
		return nil
	default:
		return ErrProtocol
	}
}

// finishPending builds the Event for whichever verb stateOpEnd is
// about to close out.
func (p *Parser) finishPending() (Event, error) {
	switch p.pending {
	case pendingOK:
		return OkEvent{}, nil
	case pendingPing:
		return PingEvent{}, nil
	case pendingPong:
		return PongEvent{}, nil
	case pendingErr:
		msg, err := parseErrMessage(p.arg.get(p.buf))
		if err != nil {
			return nil, err
		}
		return ErrEvent{Message: msg}, nil
	case pendingInfo:
		info, err := parseInfo(p.arg.get(p.buf))
		if err != nil {
			return nil, err
		}
		return info, nil
	default:
		return nil, ErrProtocol
	}
}

// consumeMsgPayload waits for size+CRLF bytes of a MSG frame and, once
// they have all arrived, emits the MsgEvent and returns to idle. It
// never scans for CRLF inside the payload: the declared size is
// authoritative.
func (p *Parser) consumeMsgPayload() (bool, error) {
	need := p.msg.size + 2
	if uint64(len(p.buf)-p.pos) < need {
		return false, nil
	}
	start := p.pos
	end := start + int(p.msg.size)
	if p.buf[end] != '\r' || p.buf[end+1] != '\n' {
		return false, ErrProtocol
	}
	payload := make([]byte, p.msg.size)
	copy(payload, p.buf[start:end])
	p.events = append(p.events, MsgEvent{
		Sid:     p.msg.sid,
		Subject: p.msg.subject,
		ReplyTo: p.msg.replyTo,
		Payload: payload,
	})
	p.pos = end + 2
	p.state = stateOpStart
	return true, nil
}

// consumeHMsgPayload is consumeMsgPayload's HMSG counterpart: it also
// requires the header block (the first header_size bytes of the
// payload) to end in the canonical "\r\n\r\n" terminator.
func (p *Parser) consumeHMsgPayload() (bool, error) {
	need := p.hmsg.total + 2
	if uint64(len(p.buf)-p.pos) < need {
		return false, nil
	}
	start := p.pos
	headerEnd := start + int(p.hmsg.headerSize)
	end := start + int(p.hmsg.total)
	if p.buf[end] != '\r' || p.buf[end+1] != '\n' {
		return false, ErrProtocol
	}
	headerRegion := p.buf[start:headerEnd]
	if len(headerRegion) < len(headerTerminator) ||
		!bytes.Equal(headerRegion[len(headerRegion)-len(headerTerminator):], headerTerminator) {
		return false, ErrProtocol
	}
	header := make([]byte, len(headerRegion)-len(headerTerminator))
	copy(header, headerRegion[:len(headerRegion)-len(headerTerminator)])
	payload := make([]byte, end-headerEnd)
	copy(payload, p.buf[headerEnd:end])
	p.events = append(p.events, HMsgEvent{
		Sid:     p.hmsg.sid,
		Subject: p.hmsg.subject,
		ReplyTo: p.hmsg.replyTo,
		Header:  header,
		Payload: payload,
	})
	p.pos = end + 2
	p.state = stateOpStart
	return true, nil
}
