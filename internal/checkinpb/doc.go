// Package checkinpb holds the hand-written wire messages for Google's
// Android device checkin protocol (android.clients.google.com/checkin),
// used to mint the android_id/security_token pair that seeds an MCS session.
package checkinpb
