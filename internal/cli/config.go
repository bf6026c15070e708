package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive first-time setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			url := promptWithDefault(reader, out, "Enter server URL", defaultServerURL)
			format := promptWithDefault(reader, out, "Default output format (table/json/yaml)", "table")
			switch format {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unsupported output format: %s", format)
			}

			viper.Set("server_url", url)
			viper.Set("output", format)

			path, err := writeConfig()
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(out, "Configuration saved to %s\n", path)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set(args[0], args[1])
			if _, err := writeConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if isSecretKey(args[0]) && viper.GetString(args[0]) != "" {
				fmt.Fprintf(out, "%s: (credentials stored)\n", args[0])
				return nil
			}
			val := viper.Get(args[0])
			if val == nil {
				fmt.Fprintf(out, "%s: (not set)\n", args[0])
			} else {
				fmt.Fprintf(out, "%s: %v\n", args[0], val)
			}
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := viper.AllKeys()
			sort.Strings(keys)

			table := NewTable("KEY", "VALUE")
			table.writer = cmd.OutOrStdout()
			for _, key := range keys {
				val := fmt.Sprintf("%v", viper.Get(key))
				if isSecretKey(key) {
					val = "(credentials stored)"
				}
				table.AddRow(key, val)
			}
			table.Render()
			return nil
		},
	}
}

// isSecretKey masks the stored session token
func isSecretKey(key string) bool {
	return key == "auth.token"
}

func promptWithDefault(r *bufio.Reader, w io.Writer, label, def string) string {
	fmt.Fprintf(w, "%s [%s]: ", label, def)
	input, _ := r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// writeConfig persists viper's settings to the active config file, or to
// $HOME/.arcgate/config.yaml when none was loaded
func writeConfig() (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		dir, err := defaultConfigDir()
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, nil
}
