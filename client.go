// Package fcmreceiver implements the receiving side of Firebase Cloud
// Messaging: Android-style registration against Google's checkin/GCM/FCM
// services, and a persistent MCS connection to mtalk.google.com that
// decrypts and surfaces push messages as they arrive.
package fcmreceiver

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/paradilldel90/fcmreceiver/internal/gcm"
	"github.com/paradilldel90/fcmreceiver/internal/mcs"
)

// mtalkAddr is the well-known MCS endpoint. It's a var so tests can point
// Listen at a local server instead.
var mtalkAddr = "mtalk.google.com:5228"

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for all client activity.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient overrides the HTTP client used for the registration calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithDeviceProfile selects which spoofed Android device identity to
// present during checkin/registration.
func WithDeviceProfile(profile gcm.DeviceProfile) Option {
	return func(c *Client) { c.device = profile }
}

// WithApp sets the Firebase/GCM application identity Register registers
// under.
func WithApp(app gcm.AppIdentity, firebase gcm.FirebaseApp) Option {
	return func(c *Client) {
		c.app = app
		c.firebase = firebase
	}
}

// Client registers for and listens to FCM push notifications for one
// Android-style device identity.
type Client struct {
	sessionDir string
	logger     *slog.Logger
	httpClient *http.Client
	device     gcm.DeviceProfile
	app        gcm.AppIdentity
	firebase   gcm.FirebaseApp

	mu          sync.Mutex
	credentials *Credentials

	// dial is overridable for tests; production code leaves it nil and
	// dialMTalk is used.
	dial mcs.Dialer

	onEvent func(Event)
}

// NewClient creates a Client that persists credentials under sessionDir.
func NewClient(sessionDir string, opts ...Option) *Client {
	c := &Client{
		sessionDir: sessionDir,
		logger:     slog.Default(),
		httpClient: http.DefaultClient,
		device:     gcm.DefaultDeviceProfile(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEvent registers the single callback Listen delivers every Event to.
// Must be called before Listen.
func (c *Client) OnEvent(fn func(Event)) { c.onEvent = fn }

func (c *Client) emit(ev Event) {
	if c.onEvent != nil {
		c.onEvent(ev)
	}
}

// Credentials returns a copy of the client's current credentials, or nil
// if Register hasn't run (and none were loaded from disk).
func (c *Client) Credentials() *Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.credentials == nil {
		return nil
	}
	cp := *c.credentials
	cp.PersistentIDs = append([]string(nil), c.credentials.PersistentIDs...)
	return &cp
}

// Register runs the checkin -> GCM register -> Firebase install pipeline
// and persists the result under sessionDir. If valid credentials already
// exist on disk, Register reuses them instead of re-registering.
func (c *Client) Register(ctx context.Context) (*Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if creds, err := LoadCredentials(c.sessionDir); err == nil && creds.FCMToken != "" {
		c.logger.Debug("reusing persisted fcm credentials")
		c.credentials = creds
		return creds, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("failed to load persisted credentials, registering fresh", "error", err)
	}

	httpClient := gcm.LoggingHTTPClient(c.httpClient, c.logger)

	identity, err := gcm.Checkin(ctx, httpClient, c.device, nil)
	if err != nil {
		return nil, &RegistrationError{Step: "checkin", Err: err}
	}
	c.logger.Debug("checkin complete", "android_id", identity.AndroidID)

	gcmToken, err := gcm.Register(ctx, httpClient, identity, c.device, c.app)
	if err != nil {
		return nil, &RegistrationError{Step: "gcm_register", Err: err}
	}
	c.logger.Debug("gcm register complete")

	fcmToken, keys, err := gcm.InstallAndRegister(ctx, httpClient, c.firebase, gcmToken)
	if err != nil {
		return nil, &RegistrationError{Step: "fcm_install", Err: err}
	}
	c.logger.Debug("fcm install complete")

	creds := &Credentials{
		AndroidID:     identity.AndroidID,
		SecurityToken: identity.SecurityToken,
		FCMToken:      fcmToken,
		PrivateKey:    base64.RawURLEncoding.EncodeToString(keys.PrivateKey.Bytes()),
		PublicKey:     keys.PublicKeyBase64URL(),
		AuthSecret:    keys.AuthSecretBase64URL(),
	}
	if err := SaveCredentials(c.sessionDir, creds); err != nil {
		c.logger.Error("failed to save credentials", "error", err)
	}
	c.credentials = creds
	return creds, nil
}

// Listen opens a persistent connection to MCS and blocks, delivering
// events via the OnEvent callback, until ctx is canceled, the server
// rejects the login (ErrAuthExpired), or the server closes the stream with
// a Close frame.
func (c *Client) Listen(ctx context.Context) error {
	c.mu.Lock()
	creds := c.credentials
	c.mu.Unlock()
	if creds == nil {
		return ErrNotRegistered
	}

	var keys mcs.Keys
	if creds.PrivateKey != "" {
		privateKey, err := creds.ECDHPrivateKey()
		if err != nil {
			return fmt.Errorf("fcmreceiver: %w", err)
		}
		authSecret, err := creds.AuthSecretBytes()
		if err != nil {
			return fmt.Errorf("fcmreceiver: %w", err)
		}
		keys = mcs.Keys{PrivateKey: privateKey, AuthSecret: authSecret}
	}

	dial := c.dial
	if dial == nil {
		dial = c.dialMTalk
	}

	identity := mcs.Identity{AndroidID: creds.AndroidID, SecurityToken: creds.SecurityToken}

	supervisor := mcs.NewSupervisor(dial, identity, keys, c.logger, mcs.SupervisorCallbacks{
		Callbacks: mcs.Callbacks{
			OnConnected: func(heartbeatIntervalMS int64) {
				c.emit(Connected{HeartbeatIntervalMS: heartbeatIntervalMS})
			},
			OnDataMessage: func(dm mcs.DataMessage) {
				c.emit(Message{From: dm.From, Category: dm.Category, PersistentID: dm.PersistentID, Payload: dm.Payload})
			},
			OnDecryptError: func(df mcs.DecryptFailure) {
				c.emit(DecryptError{PersistentID: df.PersistentID, Err: df.Err})
			},
		},
		OnReconnecting: func(attempt int, wait time.Duration) {
			c.emit(Reconnecting{Attempt: attempt})
		},
		OnAuthExpired: func(err error) {
			c.emit(AuthExpired{})
		},
	}, creds.PersistentIDs)

	runErr := supervisor.Run(ctx)

	c.mu.Lock()
	if c.credentials != nil {
		c.credentials.PersistentIDs = supervisor.Session().PersistentIDs()
		if err := SaveCredentials(c.sessionDir, c.credentials); err != nil {
			c.logger.Warn("failed to persist updated state", "error", err)
		}
	}
	c.mu.Unlock()

	if errors.Is(runErr, mcs.ErrAuthFailed) {
		return ErrAuthExpired
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// dialMTalk opens a TLS connection to the real MCS endpoint.
func (c *Client) dialMTalk(ctx context.Context) (net.Conn, error) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 30 * time.Second},
		Config:    &tls.Config{ServerName: "mtalk.google.com"},
	}
	conn, err := dialer.DialContext(ctx, "tcp", mtalkAddr)
	if err != nil {
		return nil, fmt.Errorf("dial mtalk: %w", err)
	}
	return conn, nil
}
