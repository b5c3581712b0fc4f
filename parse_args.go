package natsproto

import (
	"bytes"
	"strconv"
)

// msgArgs is the decoded argument line of a MSG frame.
type msgArgs struct {
	subject string
	sid     uint64
	replyTo string
	size    uint64
}

// parseMsgArgs decodes "subject SP sid [SP reply_to] SP size". line
// must not contain the terminating CRLF.
func parseMsgArgs(line []byte) (msgArgs, error) {
	tokens := bytes.Split(line, []byte{' '})
	var a msgArgs
	var sidTok, sizeTok []byte
	switch len(tokens) {
	case 3:
		sidTok, sizeTok = tokens[1], tokens[2]
	case 4:
		sidTok, a.replyTo, sizeTok = tokens[1], string(tokens[2]), tokens[3]
	default:
		return msgArgs{}, ErrProtocol
	}
	a.subject = string(tokens[0])
	if a.subject == "" {
		return msgArgs{}, ErrProtocol
	}
	sid, err := strconv.ParseUint(string(sidTok), 10, 64)
	if err != nil {
		return msgArgs{}, ErrProtocol
	}
	size, err := strconv.ParseUint(string(sizeTok), 10, 64)
	if err != nil {
		return msgArgs{}, ErrProtocol
	}
	a.sid, a.size = sid, size
	return a, nil
}

// hmsgArgs is the decoded argument line of an HMSG frame.
type hmsgArgs struct {
	subject    string
	sid        uint64
	replyTo    string
	headerSize uint64
	total      uint64
}

// parseHMsgArgs decodes
// "subject SP sid [SP reply_to] SP header_size SP total_size".
func parseHMsgArgs(line []byte) (hmsgArgs, error) {
	tokens := bytes.Split(line, []byte{' '})
	var a hmsgArgs
	var sidTok, hdrTok, totTok []byte
	switch len(tokens) {
	case 4:
		sidTok, hdrTok, totTok = tokens[1], tokens[2], tokens[3]
	case 5:
		sidTok, a.replyTo, hdrTok, totTok = tokens[1], string(tokens[2]), tokens[3], tokens[4]
	default:
		return hmsgArgs{}, ErrProtocol
	}
	a.subject = string(tokens[0])
	if a.subject == "" {
		return hmsgArgs{}, ErrProtocol
	}
	sid, err := strconv.ParseUint(string(sidTok), 10, 64)
	if err != nil {
		return hmsgArgs{}, ErrProtocol
	}
	headerSize, err := strconv.ParseUint(string(hdrTok), 10, 64)
	if err != nil {
		return hmsgArgs{}, ErrProtocol
	}
	total, err := strconv.ParseUint(string(totTok), 10, 64)
	if err != nil {
		return hmsgArgs{}, ErrProtocol
	}
	if headerSize > total {
		return hmsgArgs{}, ErrProtocol
	}
	a.sid, a.headerSize, a.total = sid, headerSize, total
	return a, nil
}

// headerTerminator is the four-byte sequence every HMSG header block
// must end with.
var headerTerminator = []byte("\r\n\r\n")

// parseErrMessage strips the single quotes the -ERR grammar requires
// around its message. Case is preserved; content is
// otherwise verbatim.
func parseErrMessage(line []byte) (string, error) {
	if len(line) < 2 || line[0] != '\'' || line[len(line)-1] != '\'' {
		return "", ErrProtocol
	}
	return string(line[1 : len(line)-1]), nil
}
