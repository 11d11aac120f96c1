package mcspb

// String returns a pointer to v, mirroring the generated-code convention of
// addressable optional scalar fields.
func String(v string) *string { return &v }

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// AuthService is the LoginRequest.auth_service enum.
type AuthService int32

const (
	AuthServiceGoogleLogin AuthService = 1
	AuthServiceAndroidID   AuthService = 2
)

// Enum returns a pointer to a, matching the generated-code .Enum() idiom.
func (a AuthService) Enum() *AuthService { return &a }

// IqType is the IqStanza.type enum.
type IqType int32

const (
	IqTypeGet    IqType = 0
	IqTypeSet    IqType = 1
	IqTypeResult IqType = 2
	IqTypeError  IqType = 3
)

func (t IqType) Enum() *IqType { return &t }
