package checkinpb

// DeviceType is the AndroidCheckinProto.type enum.
type DeviceType int32

const (
	DeviceTypeAndroidOS DeviceType = 1
)

func (d DeviceType) Enum() *DeviceType { return &d }

func optString(v string) *string { return &v }
func optInt32(v int32) *int32    { return &v }
func optInt64(v int64) *int64    { return &v }
func optBool(v bool) *bool       { return &v }

// AndroidBuildProto describes the device's build, mirroring the fields read
// off a real Android Build class.
type AndroidBuildProto struct {
	Fingerprint        *string
	Hardware           *string
	Brand              *string
	Radio              *string
	Bootloader         *string
	ClientId           *string
	Time               *int64
	PackageVersionCode *int32
	Device             *string
	SdkVersion         *int32
	Model              *string
	Manufacturer       *string
	Product            *string
	OtaInstalled       *bool
}

// AndroidCheckinProto is the top-level checkin payload.
type AndroidCheckinProto struct {
	Build *AndroidBuildProto
	Type  *DeviceType
}

// AndroidCheckinRequest wraps AndroidCheckinProto with the request envelope
// fields (locale, timezone, and — on re-checkin — the existing identity).
type AndroidCheckinRequest struct {
	Id               *int64
	SecurityToken    *uint64
	Checkin          *AndroidCheckinProto
	Version          *int32
	Fragment         *int32
	Locale           *string
	TimeZone         *string
	UserSerialNumber *int32
}

// AndroidCheckinResponse is the checkin endpoint's reply.
type AndroidCheckinResponse struct {
	StatsOk       *bool
	AndroidId     *int64
	SecurityToken *uint64
}

func (r *AndroidCheckinResponse) GetAndroidId() int64 {
	if r == nil || r.AndroidId == nil {
		return 0
	}
	return *r.AndroidId
}

func (r *AndroidCheckinResponse) GetSecurityToken() uint64 {
	if r == nil || r.SecurityToken == nil {
		return 0
	}
	return *r.SecurityToken
}
