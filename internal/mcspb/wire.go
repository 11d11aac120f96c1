package mcspb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every mcspb type so the frame codec can marshal
// and unmarshal without a type switch at the call site.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

func appendString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendBool(b []byte, num protowire.Number, v *bool) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	if *v {
		return protowire.AppendVarint(b, 1)
	}
	return protowire.AppendVarint(b, 0)
}

func appendInt32(b []byte, num protowire.Number, v *int32) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(*v))
}

func appendInt64(b []byte, num protowire.Number, v *int64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(*v))
}

func appendMessage(b []byte, num protowire.Number, m Message) ([]byte, error) {
	if m == nil {
		return b, nil
	}
	data, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, data), nil
}

// errTruncated wraps a short/invalid encoding encountered while decoding.
func errTruncated(what string) error {
	return fmt.Errorf("mcspb: truncated or invalid %s", what)
}

// --- Setting ---

func (s *Setting) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, s.Name)
	b = appendString(b, 2, s.Value)
	return b, nil
}

func (s *Setting) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("Setting tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("Setting.name")
			}
			s.Name = String(v)
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("Setting.value")
			}
			s.Value = String(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("Setting field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- AppData ---

func (a *AppData) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, a.Key)
	b = appendString(b, 2, a.Value)
	return b, nil
}

func (a *AppData) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("AppData tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("AppData.key")
			}
			a.Key = String(v)
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("AppData.value")
			}
			a.Value = String(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("AppData field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- ErrorInfo ---

func (e *ErrorInfo) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt32(b, 1, e.Code)
	b = appendString(b, 2, e.Message)
	b = appendString(b, 3, e.Type)
	return b, nil
}

func (e *ErrorInfo) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("ErrorInfo tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("ErrorInfo.code")
			}
			e.Code = Int32(int32(v))
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("ErrorInfo.message")
			}
			e.Message = String(v)
			data = data[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("ErrorInfo.type")
			}
			e.Type = String(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("ErrorInfo field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- HeartbeatConfig ---

func (h *HeartbeatConfig) Marshal() ([]byte, error) {
	var b []byte
	b = appendBool(b, 1, h.UpstreamSuppressed)
	b = appendInt32(b, 2, h.IntervalMs)
	return b, nil
}

func (h *HeartbeatConfig) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("HeartbeatConfig tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("HeartbeatConfig.upstream_suppressed")
			}
			h.UpstreamSuppressed = Bool(v != 0)
			data = data[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("HeartbeatConfig.interval_ms")
			}
			h.IntervalMs = Int32(int32(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("HeartbeatConfig field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- HeartbeatPing ---

func (h *HeartbeatPing) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt32(b, 1, h.StreamId)
	b = appendInt32(b, 2, h.LastStreamIdReceived)
	return b, nil
}

func (h *HeartbeatPing) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("HeartbeatPing tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("HeartbeatPing.stream_id")
			}
			h.StreamId = Int32(int32(v))
			data = data[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("HeartbeatPing.last_stream_id_received")
			}
			h.LastStreamIdReceived = Int32(int32(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("HeartbeatPing field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- HeartbeatAck ---

func (h *HeartbeatAck) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt32(b, 1, h.StreamId)
	b = appendInt32(b, 2, h.LastStreamIdReceived)
	return b, nil
}

func (h *HeartbeatAck) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("HeartbeatAck tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("HeartbeatAck.stream_id")
			}
			h.StreamId = Int32(int32(v))
			data = data[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("HeartbeatAck.last_stream_id_received")
			}
			h.LastStreamIdReceived = Int32(int32(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("HeartbeatAck field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- LoginRequest ---

func (l *LoginRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, l.Id)
	b = appendString(b, 2, l.Domain)
	b = appendString(b, 3, l.User)
	b = appendString(b, 4, l.Resource)
	b = appendString(b, 5, l.AuthToken)
	b = appendString(b, 6, l.DeviceId)
	if l.AuthService != nil {
		b = protowire.AppendTag(b, 7, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*l.AuthService))
	}
	b = appendInt64(b, 8, l.AccountId)
	for _, s := range l.Setting {
		var err error
		b, err = appendMessage(b, 9, s)
		if err != nil {
			return nil, err
		}
	}
	b = appendBool(b, 14, l.UseRmq2)
	b = appendInt64(b, 15, l.LastRmqId)
	for _, id := range l.ReceivedPersistentId {
		b = appendString(b, 16, String(id))
	}
	b = appendInt32(b, 19, l.NetworkType)
	b = appendBool(b, 21, l.AdaptiveHeartbeat)
	return b, nil
}

func (l *LoginRequest) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("LoginRequest tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.id")
			}
			l.Id = String(v)
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.domain")
			}
			l.Domain = String(v)
			data = data[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.user")
			}
			l.User = String(v)
			data = data[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.resource")
			}
			l.Resource = String(v)
			data = data[n:]
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.auth_token")
			}
			l.AuthToken = String(v)
			data = data[n:]
		case num == 6 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.device_id")
			}
			l.DeviceId = String(v)
			data = data[n:]
		case num == 7 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginRequest.auth_service")
			}
			as := AuthService(v)
			l.AuthService = &as
			data = data[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginRequest.account_id")
			}
			l.AccountId = Int64(int64(v))
			data = data[n:]
		case num == 9 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("LoginRequest.setting")
			}
			s := &Setting{}
			if err := s.Unmarshal(v); err != nil {
				return err
			}
			l.Setting = append(l.Setting, s)
			data = data[n:]
		case num == 14 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginRequest.use_rmq2")
			}
			l.UseRmq2 = Bool(v != 0)
			data = data[n:]
		case num == 15 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginRequest.last_rmq_id")
			}
			l.LastRmqId = Int64(int64(v))
			data = data[n:]
		case num == 16 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginRequest.received_persistent_id")
			}
			l.ReceivedPersistentId = append(l.ReceivedPersistentId, v)
			data = data[n:]
		case num == 19 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginRequest.network_type")
			}
			l.NetworkType = Int32(int32(v))
			data = data[n:]
		case num == 21 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginRequest.adaptive_heartbeat")
			}
			l.AdaptiveHeartbeat = Bool(v != 0)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("LoginRequest field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- LoginResponse ---

func (l *LoginResponse) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 1, l.Id)
	b = appendString(b, 2, l.Jid)
	b, err = appendMessage(b, 3, l.Error)
	if err != nil {
		return nil, err
	}
	for _, s := range l.Setting {
		b, err = appendMessage(b, 4, s)
		if err != nil {
			return nil, err
		}
	}
	b = appendInt32(b, 6, l.LastStreamIdReceived)
	b, err = appendMessage(b, 7, l.HeartbeatConfig)
	if err != nil {
		return nil, err
	}
	b = appendInt64(b, 8, l.ServerTimestamp)
	return b, nil
}

func (l *LoginResponse) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("LoginResponse tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginResponse.id")
			}
			l.Id = String(v)
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("LoginResponse.jid")
			}
			l.Jid = String(v)
			data = data[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("LoginResponse.error")
			}
			e := &ErrorInfo{}
			if err := e.Unmarshal(v); err != nil {
				return err
			}
			l.Error = e
			data = data[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("LoginResponse.setting")
			}
			s := &Setting{}
			if err := s.Unmarshal(v); err != nil {
				return err
			}
			l.Setting = append(l.Setting, s)
			data = data[n:]
		case num == 6 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginResponse.last_stream_id_received")
			}
			l.LastStreamIdReceived = Int32(int32(v))
			data = data[n:]
		case num == 7 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("LoginResponse.heartbeat_config")
			}
			h := &HeartbeatConfig{}
			if err := h.Unmarshal(v); err != nil {
				return err
			}
			l.HeartbeatConfig = h
			data = data[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("LoginResponse.server_timestamp")
			}
			l.ServerTimestamp = Int64(int64(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("LoginResponse field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- Close ---

func (c *Close) Marshal() ([]byte, error) { return nil, nil }

func (c *Close) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("Close tag")
		}
		data = data[n:]
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return errTruncated("Close field")
		}
		data = data[n:]
	}
	return nil
}

// --- IqStanza ---

func (i *IqStanza) Marshal() ([]byte, error) {
	var b []byte
	if i.Type != nil {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*i.Type))
	}
	b = appendString(b, 2, i.Id)
	b = appendString(b, 3, i.From)
	b = appendString(b, 4, i.To)
	return b, nil
}

func (i *IqStanza) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("IqStanza tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("IqStanza.type")
			}
			t := IqType(v)
			i.Type = &t
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("IqStanza.id")
			}
			i.Id = String(v)
			data = data[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("IqStanza.from")
			}
			i.From = String(v)
			data = data[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("IqStanza.to")
			}
			i.To = String(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("IqStanza field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- DataMessageStanza ---

func (d *DataMessageStanza) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 2, d.Id)
	b = appendString(b, 3, d.From)
	b = appendString(b, 4, d.To)
	b = appendString(b, 5, d.Category)
	for _, a := range d.AppData {
		b, err = appendMessage(b, 7, a)
		if err != nil {
			return nil, err
		}
	}
	b = appendString(b, 9, d.PersistentId)
	b = appendInt32(b, 10, d.StreamId)
	b = appendInt32(b, 11, d.LastStreamIdReceived)
	b = appendBytes(b, 12, d.RawData)
	b = appendInt32(b, 17, d.Ttl)
	b = appendInt64(b, 18, d.Sent)
	return b, nil
}

func (d *DataMessageStanza) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("DataMessageStanza tag")
		}
		data = data[n:]
		switch {
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.id")
			}
			d.Id = String(v)
			data = data[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.from")
			}
			d.From = String(v)
			data = data[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.to")
			}
			d.To = String(v)
			data = data[n:]
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.category")
			}
			d.Category = String(v)
			data = data[n:]
		case num == 7 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.app_data")
			}
			a := &AppData{}
			if err := a.Unmarshal(v); err != nil {
				return err
			}
			d.AppData = append(d.AppData, a)
			data = data[n:]
		case num == 9 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.persistent_id")
			}
			d.PersistentId = String(v)
			data = data[n:]
		case num == 10 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.stream_id")
			}
			d.StreamId = Int32(int32(v))
			data = data[n:]
		case num == 11 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.last_stream_id_received")
			}
			d.LastStreamIdReceived = Int32(int32(v))
			data = data[n:]
		case num == 12 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.raw_data")
			}
			d.RawData = append([]byte(nil), v...)
			data = data[n:]
		case num == 17 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.ttl")
			}
			d.Ttl = Int32(int32(v))
			data = data[n:]
		case num == 18 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("DataMessageStanza.sent")
			}
			d.Sent = Int64(int64(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("DataMessageStanza field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- StreamErrorStanza ---

func (s *StreamErrorStanza) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, s.Type)
	b = appendString(b, 2, s.Text)
	b = appendInt32(b, 3, s.Code)
	return b, nil
}

func (s *StreamErrorStanza) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("StreamErrorStanza tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("StreamErrorStanza.type")
			}
			s.Type = String(v)
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("StreamErrorStanza.text")
			}
			s.Text = String(v)
			data = data[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("StreamErrorStanza.code")
			}
			s.Code = Int32(int32(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("StreamErrorStanza field")
			}
			data = data[n:]
		}
	}
	return nil
}
