package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/acoulton/github-v3-api/internal/constants"
	"github.com/acoulton/github-v3-api/pkg/ghapi"
	"github.com/acoulton/github-v3-api/pkg/resources"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		token    string
		basic    bool
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store GitHub credentials",
		Long:  "Verify credentials against the API and store them in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch {
			case token != "":
				config.Token = token
				config.Username = ""
				config.Password = ""
			case basic:
				reader := bufio.NewReader(cmd.InOrStdin())

				if username == "" {
					_, _ = fmt.Fprint(cmd.OutOrStdout(), "Username: ")
					line, _ := reader.ReadString('\n')
					username = strings.TrimSpace(line)
				}

				if username == "" {
					return constants.ErrUsernameRequired
				}

				if password == "" {
					secret, err := readPassword(cmd, reader)
					if err != nil {
						return err
					}

					password = secret
				}

				config.Token = ""
				config.Username = username
				config.Password = password
			default:
				return constants.ErrTokenOrBasicNeeded
			}

			login, err := verifyCredentials(cmd, config)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", login)

			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "OAuth or personal access token")
	cmd.Flags().BoolVar(&basic, "basic", false, "use username and password")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for basic authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	return cmd
}

func verifyCredentials(cmd *cobra.Command, config *Config) (string, error) {
	clientConfig := newClientConfig()
	clientConfig.Token = config.Token
	clientConfig.Username = config.Username
	clientConfig.Password = config.Password

	client, err := ghapi.New(clientConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}

	user, err := resources.NewSession(client).CurrentUser()
	if err != nil {
		return "", err
	}

	login, err := user.GetString(cmd.Context(), "login")
	if err != nil {
		if ghapi.IsUnauthorized(err) {
			return "", fmt.Errorf("credentials rejected: %w", err)
		}

		return "", fmt.Errorf("failed to verify credentials: %w", err)
	}

	return login, nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Remove the token and basic credentials from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token == "" && config.Username == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")

				return err
			}

			config.Token = ""
			config.Username = ""
			config.Password = ""

			for _, key := range []string{"token", "username", "password"} {
				viper.Set(key, "")
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return err
		},
	}
}

// readPassword prompts without echo on a terminal and reads a plain line
// otherwise.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")

	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(int(syscall.Stdin)) {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		return strings.TrimSpace(line), nil
	}

	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	return string(bytePassword), nil
}
