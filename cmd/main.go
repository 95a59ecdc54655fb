package main

import (
	"fmt"
	"os"

	"freelance-client/internal/auth"
	"freelance-client/internal/client"
	"freelance-client/internal/config"
	"freelance-client/internal/logging"
	"freelance-client/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "freelance-client",
	Short: "Freelance marketplace client - Search freelancers and manage your session",
	Long: `A command line client for the LocalFreelance marketplace. Handles the
authenticated session against the marketplace API: login, transparent
access-credential refresh on expiry, freelancer search, portfolio access
and realtime notifications.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliNavigator is the command line stand-in for the browser's redirect to
// the login view
type cliNavigator struct{}

func (cliNavigator) NavigateToLogin() {
	fmt.Println("Session ended. Run 'freelance-client login' to sign in again.")
}

// runtime bundles the wired-up client stack shared by all commands
type runtime struct {
	cfg     *config.Config
	logger  *logrus.Logger
	store   auth.CredentialStore
	session *session.Manager
	client  *client.HTTPClient
}

// newRuntime loads configuration and wires the credential store, session
// manager and HTTP client together
func newRuntime() (*runtime, error) {
	logger := logging.Initialize(logLevel)

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.LogFile != "" {
		if err := logging.SetupFileLogging(logger, cfg.LogFile); err != nil {
			logger.WithError(err).Warn("Failed to set up file logging")
		}
	}

	store, err := auth.NewCredentialStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}

	sess, err := session.NewManager(cfg, store, cliNavigator{}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	httpClient, err := client.NewHTTPClient(cfg, store, sess, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: sess,
		client:  httpClient,
	}, nil
}
