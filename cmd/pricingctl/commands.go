package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/pricing-engine/internal/app"
	"github.com/yungbote/pricing-engine/internal/platform/envutil"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/services"
)

// cli holds the app shared by every subcommand. A preset app (tests) is used as-is
// and left open.
type cli struct {
	app        *app.App
	owned      bool
	configPath string
}

func newRootCmd(preset *app.App) *cobra.Command {
	c := &cli{app: preset}

	root := &cobra.Command{
		Use:           "pricingctl",
		Short:         "Operate the pricing decision engine from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.app != nil {
				return nil
			}
			return c.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.owned && c.app != nil {
				c.app.Close()
				c.app = nil
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (overrides PRICING_CONFIG_PATH)")

	root.AddCommand(c.decideCmd(), c.negotiateCmd(), c.marketCmd(), c.purgeCmd())
	return root
}

func (c *cli) open() error {
	if c.configPath != "" {
		if err := os.Setenv("PRICING_CONFIG_PATH", c.configPath); err != nil {
			return err
		}
	}
	log, err := logger.New(envutil.String("LOG_MODE", "production"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	a, err := app.NewWithConfig(log, cfg)
	if err != nil {
		return err
	}
	c.app = a
	c.owned = true
	return nil
}

func (c *cli) decideCmd() *cobra.Command {
	var (
		productID  string
		customerID string
		claim      float64
	)
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Run the decision pipeline for a product and print the result",
		Example: `  pricingctl decide --product 6f1c... --claim 95000
  pricingctl decide --product 6f1c... --customer 0b7e...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := uuid.Parse(productID)
			if err != nil {
				return fmt.Errorf("invalid --product: %w", err)
			}
			req := services.DecideRequest{ProductID: pid}
			if req.CustomerID, err = optionalUUID(customerID); err != nil {
				return fmt.Errorf("invalid --customer: %w", err)
			}
			if cmd.Flags().Changed("claim") {
				req.Claim = &claim
			}
			res, err := c.app.Services.Decision.Decide(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "product id")
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().Float64Var(&claim, "claim", 0, "competitor price claimed by the customer")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func (c *cli) negotiateCmd() *cobra.Command {
	var (
		productID  string
		customerID string
		offer      float64
		message    string
	)
	cmd := &cobra.Command{
		Use:   "negotiate",
		Short: "Answer a customer offer with the negotiation ladder",
		Example: `  pricingctl negotiate --product 6f1c... --offer 95000
  pricingctl negotiate --product 6f1c... --message "last price 95k"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := uuid.Parse(productID)
			if err != nil {
				return fmt.Errorf("invalid --product: %w", err)
			}
			cid, err := optionalUUID(customerID)
			if err != nil {
				return fmt.Errorf("invalid --customer: %w", err)
			}
			var res *services.NegotiationResult
			switch {
			case cmd.Flags().Changed("offer"):
				res, err = c.app.Services.Negotiation.Negotiate(cmd.Context(), services.NegotiateRequest{
					ProductID:    pid,
					CustomerID:   cid,
					OfferedPrice: offer,
				})
			case message != "":
				res, err = c.app.Services.Negotiation.NegotiateText(cmd.Context(), pid, cid, message)
			default:
				return errors.New("one of --offer or --message is required")
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "product id")
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().Float64Var(&offer, "offer", 0, "offered price in naira")
	cmd.Flags().StringVar(&message, "message", "", "raw customer message to extract an offer from")
	cmd.MarkFlagsMutuallyExclusive("offer", "message")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func (c *cli) marketCmd() *cobra.Command {
	var productID string
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Print aggregated market intel for a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := uuid.Parse(productID)
			if err != nil {
				return fmt.Errorf("invalid --product: %w", err)
			}
			intel, err := c.app.Services.Observation.MarketIntel(cmd.Context(), pid)
			if err != nil {
				return err
			}
			return printJSON(cmd, intel)
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "product id")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func (c *cli) purgeCmd() *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete observations older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if retention <= 0 {
				retention = c.app.Cfg.Retention.Retention
			}
			n, err := c.app.Services.Observation.Purge(cmd.Context(), retention)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"purged": n, "retention": retention.String()})
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "retention window (default from config)")
	return cmd
}

func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
