// Package cli implements the fcmreceiver command-line demo: register and
// listen subcommands wired to the fcmreceiver library.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	sessionDir string
	verbose    bool
	outputYAML bool
	appConfig  appConfigFile
)

// appConfigFile is the shape of the --config YAML file that supplies the
// Firebase/GCM application identity, since (unlike a real shipped app)
// this CLI has no single hardcoded package to register under.
type appConfigFile struct {
	PackageID      string `yaml:"package_id"`
	SenderID       string `yaml:"sender_id"`
	CertSHA1       string `yaml:"cert_sha1"`
	AppVersionCode int    `yaml:"app_version_code"`
	ProjectID      string `yaml:"project_id"`
	APIKey         string `yaml:"api_key"`
	FirebaseAppID  string `yaml:"firebase_app_id"`
	DeviceProfile  string `yaml:"device_profile"`
}

var configPath string

func defaultSessionDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fcmreceiver")
}

var rootCmd = &cobra.Command{
	Use:   "fcmreceiver",
	Short: "Register for and listen to Firebase Cloud Messaging push notifications",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		if configPath != "" {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			if err := yaml.Unmarshal(data, &appConfig); err != nil {
				return fmt.Errorf("parsing config: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionDir, "session-dir", defaultSessionDir(), "directory for saved credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&outputYAML, "yaml", false, "print output as YAML instead of plain text")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with the app/project identity to register under")

	if envDir := os.Getenv("FCMRECEIVER_SESSION_DIR"); envDir != "" {
		sessionDir = envDir
	}
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) { rootCmd.Version = v }

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func yamlOut(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error marshaling output:", err)
		return
	}
	fmt.Print(string(data))
}
