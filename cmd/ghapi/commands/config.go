package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/acoulton/github-v3-api/internal/constants"
)

// Config represents the CLI configuration file.
type Config struct {
	API      string `json:"api,omitempty"      yaml:"api,omitempty"`
	Token    string `json:"token,omitempty"    yaml:"token,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Output   string `json:"output,omitempty"   yaml:"output,omitempty"`
}

var configKeys = []string{"api", "token", "username", "password", "output"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in ~/.ghapi/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())
			out := cmd.OutOrStdout()

			switch viper.GetString("output") {
			case constants.FormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

				return encoder.Encode(config)
			case constants.FormatYAML:
				return yaml.NewEncoder(out).Encode(config)
			default:
				return displayConfigTable(out, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set one configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Set", args[0])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Unset", args[0])
		},
	}
}

func loadConfig() *Config {
	return &Config{
		API:      viper.GetString("api"),
		Token:    viper.GetString("token"),
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
		Output:   viper.GetString("output"),
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "api":
		config.API = value
	case "token":
		config.Token = value
	case "username":
		config.Username = value
	case "password":
		config.Password = value
	case "output":
		if value != "" {
			err := validateOutputFormat(value)
			if err != nil {
				return err
			}
		}

		config.Output = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	viper.Set(key, value)

	return nil
}

func maskSecrets(config *Config) *Config {
	masked := *config
	if masked.Token != "" {
		masked.Token = constants.MaskedSecret
	}

	if masked.Password != "" {
		masked.Password = constants.MaskedSecret
	}

	return &masked
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, constants.ConfigDirName)

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, constants.ConfigFileName+".yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(out io.Writer, config *Config) error {
	values := map[string]string{
		"api":      config.API,
		"token":    config.Token,
		"username": config.Username,
		"password": config.Password,
		"output":   config.Output,
	}

	keys := append([]string(nil), configKeys...)
	sort.Strings(keys)

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, key := range keys {
		value := values[key]
		if value == "" {
			value = constants.NotAvailable
		}

		_ = table.Append(key, value)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func outputConfigUpdateResult(out io.Writer, action, key string) error {
	result := map[string]string{"action": action, "key": key}

	switch viper.GetString("output") {
	case constants.FormatJSON:
		return json.NewEncoder(out).Encode(result)
	case constants.FormatYAML:
		return yaml.NewEncoder(out).Encode(result)
	default:
		_, err := fmt.Fprintf(out, "%s %s\n", action, key)

		return err
	}
}
