package commands

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acoulton/github-v3-api/internal/constants"
	"github.com/acoulton/github-v3-api/pkg/ghapi"
	"github.com/acoulton/github-v3-api/pkg/resources"
)

func lookupSchema(name string) (*ghapi.Schema, error) {
	schema, err := resources.Registry().Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (known: %s)", constants.ErrUnknownResourceType, name,
			strings.Join(resources.Registry().Names(), ", "))
	}

	return schema, nil
}

// parseKeyValues splits key=value pairs. Values are decoded as JSON when
// they parse as JSON and kept as strings otherwise.
func parseKeyValues(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
		}

		var value any
		if json.Unmarshal([]byte(raw), &value) != nil {
			value = raw
		}

		values[key] = value
	}

	return values, nil
}

func parseParams(pairs []string) (url.Values, error) {
	params := url.Values{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
		}

		params.Add(key, value)
	}

	return params, nil
}

func newEntityForURL(client *ghapi.Client, typeName, resourceURL string) (*ghapi.Entity, error) {
	schema, err := lookupSchema(typeName)
	if err != nil {
		return nil, err
	}

	return client.NewEntity(schema, map[string]any{"url": resourceURL})
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var (
		typeName string
		field    string
	)

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Get a resource",
		Long:  "Load one resource and display its fields",
		Example: `  ghapi get repos/octocat/Hello-World --type repo
  ghapi get users/octocat --type user --field followers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			entity, err := newEntityForURL(client, typeName, args[0])
			if err != nil {
				return err
			}

			if field != "" {
				value, err := entity.Get(cmd.Context(), field)
				if err != nil {
					return fmt.Errorf("failed to get %s: %w", field, err)
				}

				if nested, ok := value.(*ghapi.Entity); ok {
					return renderEntity(cmd.OutOrStdout(), viper.GetString("output"), nested)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))

				return err
			}

			_, err = entity.Load(cmd.Context())
			if err != nil {
				return err
			}

			return renderEntity(cmd.OutOrStdout(), viper.GetString("output"), entity)
		},
	}

	cmd.Flags().StringVar(&typeName, "type", resources.TypeRepo, "resource type")
	cmd.Flags().StringVar(&field, "field", "", "print a single field")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		typeName string
		params   []string
		pageSize int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list URL",
		Short: "List a collection",
		Long:  "Page through a collection and display its items",
		Example: `  ghapi list repos/octocat/Hello-World/issues --type issue --param state=closed
  ghapi list users/octocat/repos --type repo --limit 5`,
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

			coll := client.NewCollection(args[0], schema, query)

			err = coll.SetPageSize(pageSize)
			if err != nil {
				return err
			}

			var entities []*ghapi.Entity

			for entity, err := range coll.All(cmd.Context()) {
				if err != nil {
					return fmt.Errorf("failed to list %s: %w", args[0], err)
				}

				entities = append(entities, entity)
				if limit > 0 && len(entities) >= limit {
					break
				}
			}

			return renderEntities(cmd.OutOrStdout(), viper.GetString("output"), schema, entities)
		},
	}

	cmd.Flags().StringVar(&typeName, "type", resources.TypeRepo, "item resource type")
	cmd.Flags().StringArrayVar(&params, "param", nil, "query parameter key=value (repeatable)")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.DefaultPageSize, "items per page")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of items (0 for all)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		typeName string
		sets     []string
	)

	cmd := &cobra.Command{
		Use:     "update URL",
		Short:   "Update a resource",
		Long:    "Set writable fields on a resource and save them with PATCH",
		Example: `  ghapi update repos/octocat/Hello-World --type repo --set description="New text" --set private=true`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sets) == 0 {
				return constants.ErrNothingToUpdate
			}

			values, err := parseKeyValues(sets)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			entity, err := newEntityForURL(client, typeName, args[0])
			if err != nil {
				return err
			}

			for key, value := range values {
				err = entity.Set(key, value)
				if err != nil {
					return err
				}
			}

			_, err = entity.Save(cmd.Context())
			if err != nil {
				return err
			}

			return renderEntity(cmd.OutOrStdout(), viper.GetString("output"), entity)
		},
	}

	cmd.Flags().StringVar(&typeName, "type", resources.TypeRepo, "resource type")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var (
		typeName string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "delete URL",
		Short: "Delete a resource",
		Long:  "Delete a resource with DELETE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Refusing to delete %s without --force\n", args[0])

				return nil
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			entity, err := newEntityForURL(client, typeName, args[0])
			if err != nil {
				return err
			}

			err = entity.Delete(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

			return err
		},
	}

	cmd.Flags().StringVar(&typeName, "type", resources.TypeRepo, "resource type")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}
