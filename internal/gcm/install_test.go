package gcm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallAndRegister(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/proj-1/installations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gmp-app-id", body["appId"])
		assert.NotEmpty(t, body["fid"])

		json.NewEncoder(w).Encode(map[string]any{
			"fid": body["fid"],
			"authToken": map[string]any{
				"token": "install-auth-token",
			},
		})
	})
	mux.HandleFunc("/v1/projects/proj-1/registrations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "install-auth-token", r.Header.Get("x-goog-firebase-installations-auth"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		web := body["web"].(map[string]any)
		assert.NotEmpty(t, web["p256dh"])
		assert.NotEmpty(t, web["auth"])
		assert.Contains(t, web["endpoint"], "gcm-token-abc")

		json.NewEncoder(w).Encode(map[string]any{"token": "final-fcm-token"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	origInstall, origReg := installationsURLFmt, registrationsURLFmt
	installationsURLFmt = srv.URL + "/v1/projects/%s/installations"
	registrationsURLFmt = srv.URL + "/v1/projects/%s/registrations"
	defer func() { installationsURLFmt, registrationsURLFmt = origInstall, origReg }()

	app := FirebaseApp{ProjectID: "proj-1", APIKey: "test-api-key", AppID: "gmp-app-id"}
	token, keys, err := InstallAndRegister(context.Background(), srv.Client(), app, "gcm-token-abc")
	require.NoError(t, err)
	assert.Equal(t, "final-fcm-token", token)
	assert.NotEmpty(t, keys.PublicKeyBase64URL())
	assert.Len(t, keys.AuthSecret, 16)
}
