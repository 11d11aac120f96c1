package checkinpb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

func errTruncated(what string) error {
	return fmt.Errorf("checkinpb: truncated or invalid %s", what)
}

func appendString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
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

func appendUint64(b []byte, num protowire.Number, v *uint64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, *v)
}

// --- AndroidBuildProto ---

func (p *AndroidBuildProto) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, p.Fingerprint)
	b = appendString(b, 2, p.Hardware)
	b = appendString(b, 3, p.Brand)
	b = appendString(b, 4, p.Radio)
	b = appendString(b, 5, p.Bootloader)
	b = appendString(b, 6, p.ClientId)
	b = appendInt64(b, 7, p.Time)
	b = appendInt32(b, 8, p.PackageVersionCode)
	b = appendString(b, 9, p.Device)
	b = appendInt32(b, 10, p.SdkVersion)
	b = appendString(b, 11, p.Model)
	b = appendString(b, 12, p.Manufacturer)
	b = appendString(b, 13, p.Product)
	b = appendBool(b, 14, p.OtaInstalled)
	return b, nil
}

func (p *AndroidBuildProto) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("AndroidBuildProto tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("AndroidBuildProto.fingerprint")
			}
			p.Fingerprint = optString(v)
			data = data[n:]
		case num == 9 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("AndroidBuildProto.device")
			}
			p.Device = optString(v)
			data = data[n:]
		case num == 10 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidBuildProto.sdk_version")
			}
			p.SdkVersion = optInt32(int32(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("AndroidBuildProto field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- AndroidCheckinProto ---

func (c *AndroidCheckinProto) Marshal() ([]byte, error) {
	var b []byte
	if c.Build != nil {
		buildData, err := c.Build.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, buildData)
	}
	if c.Type != nil {
		b = protowire.AppendTag(b, 12, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*c.Type))
	}
	return b, nil
}

func (c *AndroidCheckinProto) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("AndroidCheckinProto tag")
		}
		data = data[n:]
		switch {
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("AndroidCheckinProto.build")
			}
			build := &AndroidBuildProto{}
			if err := build.Unmarshal(v); err != nil {
				return err
			}
			c.Build = build
			data = data[n:]
		case num == 12 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinProto.type")
			}
			t := DeviceType(v)
			c.Type = &t
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("AndroidCheckinProto field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- AndroidCheckinRequest ---

func (r *AndroidCheckinRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendInt64(b, 1, r.Id)
	b = appendUint64(b, 2, r.SecurityToken)
	if r.Checkin != nil {
		checkinData, err := r.Checkin.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, checkinData)
	}
	b = appendString(b, 5, r.Locale)
	b = appendInt32(b, 6, r.Version)
	b = appendString(b, 7, r.TimeZone)
	b = appendInt32(b, 8, r.UserSerialNumber)
	b = appendInt32(b, 9, r.Fragment)
	return b, nil
}

func (r *AndroidCheckinRequest) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("AndroidCheckinRequest tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.id")
			}
			r.Id = optInt64(int64(v))
			data = data[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.security_token")
			}
			u := v
			r.SecurityToken = &u
			data = data[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.checkin")
			}
			ci := &AndroidCheckinProto{}
			if err := ci.Unmarshal(v); err != nil {
				return err
			}
			r.Checkin = ci
			data = data[n:]
		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.locale")
			}
			r.Locale = optString(v)
			data = data[n:]
		case num == 6 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.version")
			}
			r.Version = optInt32(int32(v))
			data = data[n:]
		case num == 7 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.time_zone")
			}
			r.TimeZone = optString(v)
			data = data[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.user_serial_number")
			}
			r.UserSerialNumber = optInt32(int32(v))
			data = data[n:]
		case num == 9 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest.fragment")
			}
			r.Fragment = optInt32(int32(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("AndroidCheckinRequest field")
			}
			data = data[n:]
		}
	}
	return nil
}

// --- AndroidCheckinResponse ---

func (r *AndroidCheckinResponse) Marshal() ([]byte, error) {
	var b []byte
	b = appendBool(b, 1, r.StatsOk)
	b = appendInt64(b, 7, r.AndroidId)
	b = appendUint64(b, 8, r.SecurityToken)
	return b, nil
}

func (r *AndroidCheckinResponse) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("AndroidCheckinResponse tag")
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinResponse.stats_ok")
			}
			r.StatsOk = optBool(v != 0)
			data = data[n:]
		case num == 7 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinResponse.android_id")
			}
			r.AndroidId = optInt64(int64(v))
			data = data[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return errTruncated("AndroidCheckinResponse.security_token")
			}
			u := v
			r.SecurityToken = &u
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errTruncated("AndroidCheckinResponse field")
			}
			data = data[n:]
		}
	}
	return nil
}
