package mcspb

// Setting is a single login-time key/value pair (mcs.proto Setting).
type Setting struct {
	Name  *string
	Value *string
}

func (s *Setting) GetName() string {
	if s == nil || s.Name == nil {
		return ""
	}
	return *s.Name
}

func (s *Setting) GetValue() string {
	if s == nil || s.Value == nil {
		return ""
	}
	return *s.Value
}

// AppData is a key/value pair carried inside a DataMessageStanza, used both
// for ordinary payload fields and for the Web Push crypto headers.
type AppData struct {
	Key   *string
	Value *string
}

func (a *AppData) GetKey() string {
	if a == nil || a.Key == nil {
		return ""
	}
	return *a.Key
}

func (a *AppData) GetValue() string {
	if a == nil || a.Value == nil {
		return ""
	}
	return *a.Value
}

// ErrorInfo describes a LoginResponse failure.
type ErrorInfo struct {
	Code    *int32
	Message *string
	Type    *string
}

func (e *ErrorInfo) GetCode() int32 {
	if e == nil || e.Code == nil {
		return 0
	}
	return *e.Code
}

func (e *ErrorInfo) GetMessage() string {
	if e == nil || e.Message == nil {
		return ""
	}
	return *e.Message
}

func (e *ErrorInfo) GetType() string {
	if e == nil || e.Type == nil {
		return ""
	}
	return *e.Type
}

// HeartbeatConfig carries the server's negotiated heartbeat interval.
type HeartbeatConfig struct {
	UpstreamSuppressed *bool
	IntervalMs         *int32
}

func (h *HeartbeatConfig) GetIntervalMs() int32 {
	if h == nil || h.IntervalMs == nil {
		return 0
	}
	return *h.IntervalMs
}

// HeartbeatPing is mcs tag 0.
type HeartbeatPing struct {
	StreamId             *int32
	LastStreamIdReceived *int32
}

func (h *HeartbeatPing) GetStreamId() int32 {
	if h == nil || h.StreamId == nil {
		return 0
	}
	return *h.StreamId
}

func (h *HeartbeatPing) GetLastStreamIdReceived() int32 {
	if h == nil || h.LastStreamIdReceived == nil {
		return 0
	}
	return *h.LastStreamIdReceived
}

// HeartbeatAck is mcs tag 1.
type HeartbeatAck struct {
	StreamId             *int32
	LastStreamIdReceived *int32
}

func (h *HeartbeatAck) GetStreamId() int32 {
	if h == nil || h.StreamId == nil {
		return 0
	}
	return *h.StreamId
}

func (h *HeartbeatAck) GetLastStreamIdReceived() int32 {
	if h == nil || h.LastStreamIdReceived == nil {
		return 0
	}
	return *h.LastStreamIdReceived
}

// LoginRequest is mcs tag 2.
type LoginRequest struct {
	Id                   *string
	Domain               *string
	User                 *string
	Resource             *string
	AuthToken            *string
	DeviceId             *string
	AuthService          *AuthService
	AccountId            *int64
	Setting              []*Setting
	UseRmq2              *bool
	LastRmqId            *int64
	ReceivedPersistentId []string
	NetworkType          *int32
	AdaptiveHeartbeat    *bool
}

// LoginResponse is mcs tag 3.
type LoginResponse struct {
	Id                   *string
	Jid                  *string
	Error                *ErrorInfo
	Setting              []*Setting
	LastStreamIdReceived *int32
	HeartbeatConfig      *HeartbeatConfig
	ServerTimestamp      *int64
}

func (l *LoginResponse) GetId() string {
	if l == nil || l.Id == nil {
		return ""
	}
	return *l.Id
}

func (l *LoginResponse) GetError() *ErrorInfo { return l.Error }

func (l *LoginResponse) GetLastStreamIdReceived() int32 {
	if l == nil || l.LastStreamIdReceived == nil {
		return 0
	}
	return *l.LastStreamIdReceived
}

func (l *LoginResponse) GetHeartbeatConfig() *HeartbeatConfig { return l.HeartbeatConfig }

// Close is mcs tag 4; it carries no fields.
type Close struct{}

// IqStanza is mcs tag 7. Ignorable for this client beyond logging.
type IqStanza struct {
	Type *IqType
	Id   *string
	From *string
	To   *string
}

func (i *IqStanza) GetType() IqType {
	if i == nil || i.Type == nil {
		return IqTypeGet
	}
	return *i.Type
}

func (i *IqStanza) GetId() string {
	if i == nil || i.Id == nil {
		return ""
	}
	return *i.Id
}

func (i *IqStanza) GetFrom() string {
	if i == nil || i.From == nil {
		return ""
	}
	return *i.From
}

func (i *IqStanza) GetTo() string {
	if i == nil || i.To == nil {
		return ""
	}
	return *i.To
}

// DataMessageStanza is mcs tag 8 — the message that actually carries a push.
type DataMessageStanza struct {
	Id                   *string
	From                 *string
	To                   *string
	Category             *string
	AppData              []*AppData
	PersistentId         *string
	StreamId             *int32
	LastStreamIdReceived *int32
	RawData              []byte
	Ttl                  *int32
	Sent                 *int64
}

func (d *DataMessageStanza) GetFrom() string {
	if d == nil || d.From == nil {
		return ""
	}
	return *d.From
}

func (d *DataMessageStanza) GetCategory() string {
	if d == nil || d.Category == nil {
		return ""
	}
	return *d.Category
}

func (d *DataMessageStanza) GetPersistentId() string {
	if d == nil || d.PersistentId == nil {
		return ""
	}
	return *d.PersistentId
}

func (d *DataMessageStanza) GetAppData() []*AppData {
	if d == nil {
		return nil
	}
	return d.AppData
}

func (d *DataMessageStanza) GetRawData() []byte {
	if d == nil {
		return nil
	}
	return d.RawData
}

// StreamErrorStanza is mcs tag 10.
type StreamErrorStanza struct {
	Type *string
	Text *string
	Code *int32
}

func (s *StreamErrorStanza) GetType() string {
	if s == nil || s.Type == nil {
		return ""
	}
	return *s.Type
}

func (s *StreamErrorStanza) GetText() string {
	if s == nil || s.Text == nil {
		return ""
	}
	return *s.Text
}

func (s *StreamErrorStanza) GetCode() int32 {
	if s == nil || s.Code == nil {
		return 0
	}
	return *s.Code
}
