package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/acoulton/github-v3-api/internal/constants"
	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

func validateOutputFormat(format string) error {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %s (use table, json or yaml)", constants.ErrInvalidOutputFormat, format)
	}
}

func encodeStructured(out io.Writer, format string, v any) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(v)
	case constants.FormatYAML:
		return yaml.NewEncoder(out).Encode(v)
	default:
		return validateOutputFormat(format)
	}
}

// renderEntity prints one entity as a property table or a document.
func renderEntity(out io.Writer, format string, entity *ghapi.Entity) error {
	if format != constants.FormatTable {
		return encodeStructured(out, format, entity.AsMap())
	}

	data := entity.AsMap()

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, field := range entity.Schema().FieldNames() {
		value, ok := data[field]
		if !ok {
			continue
		}

		_ = table.Append(field, formatValue(value))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderEntities prints a list with one row per entity and one column per
// field present in any of them.
func renderEntities(out io.Writer, format string, schema *ghapi.Schema, entities []*ghapi.Entity) error {
	rows := make([]map[string]any, 0, len(entities))
	for _, entity := range entities {
		rows = append(rows, entity.AsMap())
	}

	if format != constants.FormatTable {
		return encodeStructured(out, format, rows)
	}

	var columns []string

	for _, field := range schema.FieldNames() {
		for _, row := range rows {
			if _, ok := row[field]; ok {
				columns = append(columns, field)

				break
			}
		}
	}

	if len(columns) == 0 {
		_, err := fmt.Fprintln(out, "No items found")

		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header(toAny(columns)...)

	for _, row := range rows {
		cells := make([]any, 0, len(columns))
		for _, column := range columns {
			cells = append(cells, formatValue(row[column]))
		}

		_ = table.Append(cells...)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// formatValue renders a field value for a table cell.
func formatValue(value any) string {
	var s string

	switch v := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any:
		s = nestedLabel(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}

		s = strings.Join(parts, ", ")
	default:
		s = fmt.Sprint(v)
	}

	if len(s) > constants.StringTruncationLength {
		s = s[:constants.StringTruncationLength-3] + "..."
	}

	return s
}

func nestedLabel(m map[string]any) string {
	for _, key := range []string{"login", "name", "sha", "title", "url"} {
		if v, ok := m[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return "{" + strings.Join(keys, ",") + "}"
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
