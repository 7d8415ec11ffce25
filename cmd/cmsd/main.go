package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cms "github.com/goliatone/go-cms-zones"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "cmsd",
		Short: "Zone based CMS server",
		Long: `cmsd serves pages through the dynamic route resolver and exposes the
admin API for pages, zones, articles and content blocks.

Configuration is read from --config (YAML, JSON or TOML) and CMS_ prefixed
environment variables, e.g. CMS_STORAGE_DSN.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the configuration file")

	root.AddCommand(
		newServeCmd(opts),
		newResolveCmd(opts),
		newComponentsCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *rootOptions) load() (cms.Config, error) {
	return cms.LoadConfig(o.configPath)
}

func (o *rootOptions) module(ctx context.Context) (*cms.Module, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return cms.NewWithContext(ctx, cfg)
}
