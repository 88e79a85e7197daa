package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acoulton/github-v3-api/internal/constants"
	"github.com/acoulton/github-v3-api/internal/export"
	"github.com/acoulton/github-v3-api/pkg/resources"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var (
		typeName string
		params   []string
		limit    int
		natsURL  string
		subject  string
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "export URL",
		Short: "Export a collection",
		Long: `Stream every item of a collection as JSON lines, to stdout, a file or a
NATS subject (one message per item on <subject>.<type>).`,
		Example: `  ghapi export repos/octocat/Hello-World/issues --type issue > issues.jsonl
  ghapi export users/octocat/repos --type repo --nats-url nats://localhost:4222`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			schema, err := lookupSchema(typeName)
			if err != nil {
				return err
			}

			query, err := parseParams(params)
			if err != nil {
				return err
			}

			var sink export.Sink

			switch {
			case natsURL != "":
				sink, err = export.DialNATS(natsURL, subject)
				if err != nil {
					return err
				}
			case outFile != "":
				f, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.ConfigFilePerm)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", outFile, err)
				}

				defer func() { _ = f.Close() }()

				sink = export.NewJSONLinesSink(f)
			default:
				sink = export.NewJSONLinesSink(cmd.OutOrStdout())
			}

			n, err := export.Stream(cmd.Context(), client.NewCollection(args[0], schema, query), sink, limit)

			closeErr := sink.Close()
			if err != nil {
				return err
			}

			if closeErr != nil {
				return closeErr
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d %s items\n", n, schema.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", resources.TypeRepo, "item resource type")
	cmd.Flags().StringArrayVar(&params, "param", nil, "query parameter key=value (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of items (0 for all)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "publish to this NATS server instead of writing JSON lines")
	cmd.Flags().StringVar(&subject, "subject", constants.DefaultExportSubject, "NATS subject prefix")
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "write JSON lines to this file")

	return cmd
}
