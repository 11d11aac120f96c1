package gcm

// OverrideURLsForTest repoints every HTTP endpoint this package calls at
// fake servers, returning a function that restores the originals. Intended
// for callers in other packages whose own tests need to drive a full
// checkin/register/install flow without reaching Google's servers.
func OverrideURLsForTest(checkin, register, installFmt, regFmt string) func() {
	origCheckin, origRegister := checkinURL, registerURL
	origInstallFmt, origRegFmt := installationsURLFmt, registrationsURLFmt

	checkinURL = checkin
	registerURL = register
	installationsURLFmt = installFmt
	registrationsURLFmt = regFmt

	return func() {
		checkinURL = origCheckin
		registerURL = origRegister
		installationsURLFmt = origInstallFmt
		registrationsURLFmt = origRegFmt
	}
}
