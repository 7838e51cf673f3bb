package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/volumediscount/internal/cli"
	"github.com/TimurManjosov/volumediscount/internal/client"
)

var (
	settingsProducts   []string
	settingsPercentOff int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage a shop's volume discount settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <shop-id>",
	Short: "Show the stored settings",
	Long: `Show the products, quantity threshold and percentage stored for a shop.

Examples:
  volumediscount settings get gid://shopify/Shop/1
  volumediscount settings get gid://shopify/Shop/1 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		s, err := c.GetSettings(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}

		if quiet {
			return nil
		}
		return cli.PrintSettings(cmd.OutOrStdout(), s, cli.OutputFormat(format))
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <shop-id>",
	Short: "Replace the stored settings",
	Long: `Replace a shop's settings. The quantity threshold is always stored as 2.

Examples:
  volumediscount settings set gid://shopify/Shop/1 --product gid://shopify/Product/9 --percent-off 15
  volumediscount settings set gid://shopify/Shop/1 -p gid://shopify/Product/9 -p gid://shopify/Product/10 --percent-off 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		shopID := args[0]
		cfg, err := c.SaveSettings(context.Background(), shopID, settingsProducts, settingsPercentOff)
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		if quiet {
			return nil
		}
		return cli.PrintSettings(cmd.OutOrStdout(), &client.Settings{ShopID: shopID, Config: cfg}, cli.OutputFormat(format))
	},
}

var settingsDeleteCmd = &cobra.Command{
	Use:   "delete <shop-id>",
	Short: "Remove the stored settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		if err := c.DeleteSettings(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete settings: %w", err)
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted volume discount settings for %s\n", args[0])
		}
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringSliceVarP(&settingsProducts, "product", "p", nil, "Product id (repeatable)")
	settingsSetCmd.Flags().IntVar(&settingsPercentOff, "percent-off", 0, "Percentage off each qualifying line (1-80)")

	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsDeleteCmd)
}
