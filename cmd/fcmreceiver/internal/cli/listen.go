package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"

	fcmreceiver "github.com/paradilldel90/fcmreceiver"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listen for incoming push messages (Ctrl+C to stop)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		client := fcmreceiver.NewClient(sessionDir)
		creds, err := client.Register(ctx)
		if err != nil {
			return fmt.Errorf("no credentials and registration failed: %w", err)
		}
		_ = creds

		client.OnEvent(func(ev fcmreceiver.Event) {
			switch e := ev.(type) {
			case fcmreceiver.Connected:
				fmt.Fprintf(os.Stderr, "connected (heartbeat %dms)\n", e.HeartbeatIntervalMS)
			case fcmreceiver.Reconnecting:
				fmt.Fprintf(os.Stderr, "reconnecting (attempt %d)\n", e.Attempt)
			case fcmreceiver.AuthExpired:
				fmt.Fprintln(os.Stderr, "credentials expired, run register again")
			case fcmreceiver.DecryptError:
				fmt.Fprintf(os.Stderr, "could not decrypt message %s: %v\n", e.PersistentID, e.Err)
			case fcmreceiver.Message:
				printMessage(e)
			}
		})

		return client.Listen(ctx)
	},
}

func printMessage(m fcmreceiver.Message) {
	if outputYAML {
		yamlOut(map[string]any{
			"from":          m.From,
			"category":      m.Category,
			"persistent_id": m.PersistentID,
			"payload":       base64.StdEncoding.EncodeToString(m.Payload),
		})
		return
	}
	fmt.Printf(">> [%s] %s\n", m.PersistentID, string(m.Payload))
}

func init() {
	rootCmd.AddCommand(listenCmd)
}
