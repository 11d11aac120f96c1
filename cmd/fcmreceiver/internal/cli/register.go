package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	fcmreceiver "github.com/paradilldel90/fcmreceiver"
	"github.com/paradilldel90/fcmreceiver/internal/gcm"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a device identity and obtain an FCM token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		device := gcm.DefaultDeviceProfile()
		if appConfig.DeviceProfile != "" {
			if p, ok := gcm.DeviceProfileByName(appConfig.DeviceProfile); ok {
				device = p
			} else {
				return fmt.Errorf("unknown device_profile %q", appConfig.DeviceProfile)
			}
		}

		client := fcmreceiver.NewClient(sessionDir,
			fcmreceiver.WithDeviceProfile(device),
			fcmreceiver.WithApp(
				gcm.AppIdentity{
					PackageID:      appConfig.PackageID,
					SenderID:       appConfig.SenderID,
					CertSHA1:       appConfig.CertSHA1,
					AppVersionCode: appConfig.AppVersionCode,
				},
				gcm.FirebaseApp{
					ProjectID: appConfig.ProjectID,
					APIKey:    appConfig.APIKey,
					AppID:     appConfig.FirebaseAppID,
				},
			),
		)

		fmt.Fprintln(os.Stderr, "Registering...")
		creds, err := client.Register(ctx)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		if outputYAML {
			yamlOut(map[string]any{
				"android_id": creds.AndroidID,
				"fcm_token":  creds.FCMToken,
			})
		} else {
			fmt.Printf("Android ID: %d\nFCM token:  %s\n", creds.AndroidID, creds.FCMToken)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
