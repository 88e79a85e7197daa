package commands

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acoulton/github-v3-api/internal/constants"
)

// RateLimitInfo is the rate limit state reported by the last response.
type RateLimitInfo struct {
	Limit     *int `json:"limit"     yaml:"limit"`
	Remaining *int `json:"remaining" yaml:"remaining"`
}

// NewRateLimitCommand creates the rate-limit command.
func NewRateLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limit",
		Short: "Show the API rate limit",
		Long:  "Query the API and display the request limit and remaining requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Request(cmd.Context(), http.MethodGet, "rate_limit", nil)
			if err != nil {
				return fmt.Errorf("failed to query rate limit: %w", err)
			}

			var info RateLimitInfo
			if limit, ok := client.RateLimit(); ok {
				info.Limit = &limit
			}

			if remaining, ok := client.RateLimitRemaining(); ok {
				info.Remaining = &remaining
			}

			output := viper.GetString("output")
			if output != constants.FormatTable {
				return encodeStructured(cmd.OutOrStdout(), output, info)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")
			_ = table.Append("Limit", optionalInt(info.Limit))
			_ = table.Append("Remaining", optionalInt(info.Remaining))

			err = table.Render()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return constants.NotAvailable
	}

	return strconv.Itoa(*v)
}
