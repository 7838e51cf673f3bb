package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/volumediscount/internal/cli"
	"github.com/TimurManjosov/volumediscount/internal/function"
)

var evaluateCart string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <shop-id>",
	Short: "Evaluate a cart against a shop's stored settings",
	Long: `Send a cart to the API and show the discounts the function would apply
with the shop's stored configuration. The cart file holds {"lines": [...]}.

Examples:
  volumediscount evaluate gid://shopify/Shop/1 --cart cart.json
  cat cart.json | volumediscount evaluate gid://shopify/Shop/1 --cart - --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evaluateCart == "" {
			return fmt.Errorf("--cart is required")
		}

		var in io.Reader = cmd.InOrStdin()
		if evaluateCart != "-" {
			f, err := os.Open(evaluateCart)
			if err != nil {
				return fmt.Errorf("failed to open cart: %w", err)
			}
			defer f.Close()
			in = f
		}

		var cart function.Cart
		if err := json.NewDecoder(in).Decode(&cart); err != nil {
			return fmt.Errorf("failed to parse cart: %w", err)
		}

		c, err := apiClient(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		result, err := c.EvaluateShop(context.Background(), args[0], cart)
		if err != nil {
			return fmt.Errorf("failed to evaluate cart: %w", err)
		}

		if quiet {
			return nil
		}
		return cli.PrintResult(cmd.OutOrStdout(), result, cli.OutputFormat(format))
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateCart, "cart", "", "Cart JSON file, or - for stdin")
	rootCmd.AddCommand(evaluateCmd)
}
