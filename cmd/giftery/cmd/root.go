package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/giftery-client/internal/app"
	"github.com/samvad-hq/giftery-client/internal/catalog"
	"github.com/samvad-hq/giftery-client/internal/config"
	"github.com/samvad-hq/giftery-client/internal/logger"
	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Vendor is what the subcommands need from the application layer.
type Vendor interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
	Products(ctx context.Context, filter catalog.Filter) ([]giftery.Product, error)
	PlaceOrder(ctx context.Context, order giftery.OrderData) (app.Placement, error)
	Close() error
}

// VendorFactory opens a Vendor for the given global flags.
type VendorFactory func(ctx context.Context, opts Options) (Vendor, error)

// Options are the persistent root flags.
type Options struct {
	EnvFile string
	UsePost bool
}

// Execute runs the CLI against the real API until interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(OpenVendor).ExecuteContext(ctx)
}

// NewRootCmd assembles the command tree. open is called lazily by the
// subcommands that talk to the API.
func NewRootCmd(open VendorFactory) *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "giftery",
		Short: "Giftery gift certificate API client",
		Long: `giftery talks to the Giftery gift certificate API.

Credentials are read from GIFTERY_CLIENT_ID and GIFTERY_CLIENT_SECRET,
either from the environment or from an env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file to load (default: configs/.env)")
	rootCmd.PersistentFlags().BoolVar(&opts.UsePost, "post", false, "send data and sig as a POST form body")

	withVendor := func(cmd *cobra.Command, fn func(Vendor) error) error {
		v, err := open(cmd.Context(), *opts)
		if err != nil {
			return err
		}
		defer v.Close()
		return fn(v)
	}

	rootCmd.AddCommand(
		newBalanceCmd(withVendor),
		newProductsCmd(withVendor),
		newOrderCmd(withVendor),
		newVersionCmd(),
	)
	return rootCmd
}

type vendorRunner func(cmd *cobra.Command, fn func(Vendor) error) error

// OpenVendor loads config, initializes logging and builds an app.Vendor.
func OpenVendor(ctx context.Context, opts Options) (Vendor, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.UsePost {
		cfg.HTTPMethod = "post"
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	v, err := app.NewVendor(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize vendor", "error", err)
		_ = logger.Close()
		return nil, err
	}
	return &loggedVendor{Vendor: v}, nil
}

// loggedVendor flushes the package logger after the vendor is closed.
type loggedVendor struct {
	*app.Vendor
}

func (l *loggedVendor) Close() error {
	err := l.Vendor.Close()
	_ = logger.Close()
	return err
}
