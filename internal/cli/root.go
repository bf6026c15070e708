package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pratik-mahalle/arcgate/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultServerURL = "http://localhost:3000"
	configDirName    = ".arcgate"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "arcgate",
	Short: "arcgate CLI - sign in, subscribe and run completions",
	Long: `arcgate CLI talks to an arcgate server: it signs in by email, starts
the weekly arc-plus checkout and sends prompts to the arc-core and arc-plus
model tiers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config commands never touch the server
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		switch cmd.Name() {
		case "login", "logout", "status":
			return initClient()
		}
		return initAuthenticatedClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.arcgate/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newBillingCmd())
	rootCmd.AddCommand(newCompleteCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ARCGATE")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server_url", defaultServerURL)
	viper.SetDefault("output", "table")
	viper.SetDefault("cookie_name", client.DefaultCookieName)

	_ = viper.ReadInConfig()
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL:    url,
		CookieName: viper.GetString("cookie_name"),
	})
	if token := viper.GetString("auth.token"); token != "" {
		apiClient.SetToken(token)
	}
	return nil
}

func initAuthenticatedClient() error {
	if err := initClient(); err != nil {
		return err
	}

	if apiClient.GetToken() == "" {
		return fmt.Errorf("not authenticated. Run 'arcgate auth login' first")
	}
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
