package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	cms "github.com/goliatone/go-cms-zones"
	"github.com/spf13/cobra"
)

type resolveOutput struct {
	Path         string `json:"path"`
	Found        bool   `json:"found"`
	MatchedRoute string `json:"matched_route,omitempty"`
	SubRoute     string `json:"sub_route,omitempty"`
	Controller   string `json:"controller,omitempty"`
	Action       string `json:"action,omitempty"`
	PageID       string `json:"page_id,omitempty"`
	Fallback     bool   `json:"configuration_fallback,omitempty"`
	Config       any    `json:"configuration,omitempty"`
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print how a public path resolves to a page and controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			module, err := opts.module(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			res, ok, err := module.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			out := resolveOutput{Path: args[0], Found: ok}
			if ok {
				out.Path = res.Path
				out.MatchedRoute = res.MatchedRoute
				out.SubRoute = res.SubRoute
				out.Controller = res.Controller.Name
				out.Action = res.Action
				out.PageID = res.Page.ID.String()
				out.Fallback = res.ConfigurationFallback
				out.Config = res.Configuration
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newComponentsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List registered controllers and zone components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := opts.module(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			registries := []*cms.Registry{module.Controllers(), module.Components()}
			if asJSON {
				out := map[string][]cms.Entry{}
				for _, reg := range registries {
					out[string(reg.Kind())] = reg.All()
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeCatalog(cmd.OutOrStdout(), registries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			data, err := cms.DumpConfig(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCatalog(w io.Writer, registries []*cms.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tCATEGORY\tMODULE\tPROPERTIES")
	for _, reg := range registries {
		for _, entry := range reg.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", reg.Kind(), entry.Name, entry.Category, entry.Module, len(entry.Properties))
		}
		for _, failure := range reg.Failures() {
			fmt.Fprintf(tw, "%s\t!%s\t\t%s\t%v\n", reg.Kind(), failure.Module, failure.Module, failure.Err)
		}
	}
	return tw.Flush()
}
