package gcm

// DeviceProfile describes the Android device identity sent during checkin
// and registration. The values mimic a real device's Build.* fields closely
// enough that a checkin payload built from one is indistinguishable from a
// genuine device's first boot.
type DeviceProfile struct {
	// BuildFingerprint is brand/product/device:version/build_id/build_number:user/release-keys.
	BuildFingerprint string
	SDKVersion       int
	GMSVersion       int
	Device           string
	Model            string
	ChromeVersion    string
	Hardware         string
	Brand            string
	Manufacturer     string
	Product          string
	Bootloader       string
	Radio            string
	// BuildTime is Build.TIME / 1000, seconds since epoch.
	BuildTime int64
}

// profiles is a small registry of credible device identities a caller can
// select by name (see the device_profile key of cmd/fcmreceiver's --config
// file); "pixel7" is the
// default used when the caller does not specify one.
var profiles = map[string]DeviceProfile{
	"pixel7": {
		BuildFingerprint: "google/panther/panther:13/TQ3A.230805.001/10316531:user/release-keys",
		SDKVersion:       33,
		GMSVersion:       241516037,
		Device:           "panther",
		Model:            "Pixel 7",
		Hardware:         "panther",
		Brand:            "google",
		Manufacturer:     "Google",
		Product:          "panther",
		Bootloader:       "slider-1.2-9819352",
		Radio:            "g5300g-230511-230925-B-10484716",
		BuildTime:        1691193600,
		ChromeVersion:    "120.0.6099.144",
	},
	"pixel6a": {
		BuildFingerprint: "google/bluejay/bluejay:14/UQ1A.240205.004/11269751:user/release-keys",
		SDKVersion:       34,
		GMSVersion:       241813038,
		Device:           "bluejay",
		Model:            "Pixel 6a",
		Hardware:         "bluejay",
		Brand:            "google",
		Manufacturer:     "Google",
		Product:          "bluejay",
		Bootloader:       "bluejay-1.3-11089570",
		Radio:            "g5123b-102232-231030-B-11150229",
		BuildTime:        1707091200,
		ChromeVersion:    "121.0.6167.164",
	},
}

// DefaultDeviceProfile returns the default device identity used when the
// caller doesn't pick one explicitly.
func DefaultDeviceProfile() DeviceProfile {
	return profiles["pixel7"]
}

// DeviceProfileByName looks up a device profile by its registry name. ok is
// false when the name is unknown.
func DeviceProfileByName(name string) (DeviceProfile, bool) {
	p, ok := profiles[name]
	return p, ok
}
