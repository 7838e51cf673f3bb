package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/volumediscount/internal/client"
	"github.com/TimurManjosov/volumediscount/internal/function"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintSettings outputs a shop's settings in the specified format
func PrintSettings(w io.Writer, s *client.Settings, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, s)
	case FormatYAML:
		return printYAML(w, s)
	case FormatTable:
		return printSettingsTable(w, s)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintResult outputs a function result in the specified format.
// JSON output is the exact wire document.
func PrintResult(w io.Writer, r *function.RunResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, r)
	case FormatYAML:
		return printYAML(w, r)
	case FormatTable:
		return printResultTable(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printSettingsTable(w io.Writer, s *client.Settings) error {
	table := tablewriter.NewWriter(w)
	table.Header("Shop", "Products", "Min Qty", "Percent Off")

	if s.Config == nil {
		if err := table.Append(s.ShopID, "(not configured)", "-", "-"); err != nil {
			return err
		}
		return table.Render()
	}

	if err := table.Append(
		s.ShopID,
		strings.Join(s.Config.Products, "\n"),
		fmt.Sprintf("%d", s.Config.MinQty),
		fmt.Sprintf("%d%%", s.Config.PercentOff),
	); err != nil {
		return err
	}
	return table.Render()
}

func printResultTable(w io.Writer, r *function.RunResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("Cart Line", "Message", "Percentage", "Strategy")

	for _, op := range r.Operations {
		if op.ProductDiscountsAdd == nil {
			continue
		}
		for _, c := range op.ProductDiscountsAdd.Candidates {
			targets := make([]string, 0, len(c.Targets))
			for _, t := range c.Targets {
				targets = append(targets, t.CartLine.ID)
			}
			if err := table.Append(
				strings.Join(targets, ", "),
				c.Message,
				fmt.Sprintf("%g%%", c.Value.Percentage.Value),
				op.ProductDiscountsAdd.SelectionStrategy,
			); err != nil {
				return err
			}
		}
	}

	return table.Render()
}
