package natsproto

// EventKind identifies the concrete type of an Event without a type
// switch, mirroring the Operation enum the Python original tags every
// event with (common.py Operation).
type EventKind uint8

const (
	EventOK EventKind = iota
	EventPing
	EventPong
	EventErr
	EventMsg
	EventHMsg
	EventInfo
)

func (k EventKind) String() string {
	switch k {
	case EventOK:
		return "OK"
	case EventPing:
		return "PING"
	case EventPong:
		return "PONG"
	case EventErr:
		return "ERR"
	case EventMsg:
		return "MSG"
	case EventHMsg:
		return "HMSG"
	case EventInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Event is one parsed protocol occurrence. Concrete types are OkEvent,
// PingEvent, PongEvent, ErrEvent, MsgEvent, HMsgEvent and InfoEvent.
type Event interface {
	Kind() EventKind
}

// OkEvent is emitted for a +OK line.
type OkEvent struct{}

// Kind implements Event.
func (OkEvent) Kind() EventKind { return EventOK }

// PingEvent is emitted for a PING line.
type PingEvent struct{}

// Kind implements Event.
func (PingEvent) Kind() EventKind { return EventPing }

// PongEvent is emitted for a PONG line.
type PongEvent struct{}

// Kind implements Event.
func (PongEvent) Kind() EventKind { return EventPong }

// ErrEvent is emitted for a -ERR line. Message has the surrounding
// single quotes stripped; it is otherwise byte-preserving (no case
// folding).
type ErrEvent struct {
	Message string
}

// Kind implements Event.
func (ErrEvent) Kind() EventKind { return EventErr }

// MsgEvent is emitted for a MSG frame.
type MsgEvent struct {
	Sid     uint64
	Subject string
	ReplyTo string // empty when the frame carried no reply subject
	Payload []byte
}

// Kind implements Event.
func (MsgEvent) Kind() EventKind { return EventMsg }

// HMsgEvent is emitted for an HMSG frame. Header has the terminating
// "\r\n\r\n" stripped; Payload is exactly the declared total size minus
// the declared header size.
type HMsgEvent struct {
	Sid     uint64
	Subject string
	ReplyTo string
	Header  []byte
	Payload []byte
}

// Kind implements Event.
func (HMsgEvent) Kind() EventKind { return EventHMsg }

// InfoEvent is emitted for an INFO line. Optional fields absent from
// the JSON object decode to a nil pointer / nil slice.
type InfoEvent struct {
	ServerID   string
	ServerName string
	Version    Version
	Go         string
	Host       string
	Port       int64
	Headers    bool
	Proto      int64

	MaxPayload    *int64
	ClientID      *int64
	AuthRequired  *bool
	TLSRequired   *bool
	TLSVerify     *bool
	TLSAvailable  *bool
	ConnectURLs   []string
	WSConnectURLs []string
	LameDuckMode  *bool
	GitCommit     *string
	JetStream     *bool
	IP            *string
	ClientIP      *string
	Nonce         *string
	Cluster       *string
	Domain        *string
	XKey          *string
}

// Kind implements Event.
func (InfoEvent) Kind() EventKind { return EventInfo }
