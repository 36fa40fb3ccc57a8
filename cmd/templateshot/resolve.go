package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"templateshot/internal/resolver"
	"templateshot/internal/templatelist"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [templates-file]",
		Short: "Show how each template reference resolves without opening a browser",
		Long: `Resolve reads the templates file and prints the template URL, output
file stem and title every reference resolves to. Search terms are looked up
against the search API; nothing is captured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolveCmd,
	}
	addSiteFlags(cmd)
	return cmd
}

func runResolveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	refs, err := templatelist.Load(cfg.InputFile)
	if err != nil {
		return err
	}

	search := resolver.NewSearchClient(cfg.SearchEndpoint,
		resolver.WithRateLimit(cfg.SearchRate),
		resolver.WithLangCode(cfg.LangCode),
	)
	res := resolver.New(cfg.DemoBase, search)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tSOURCE\tTEMPLATE\tURL\tTITLE")
	for i, raw := range refs {
		ref := resolver.ParseReference(raw)
		target, err := res.Resolve(cmd.Context(), raw)
		switch {
		case err != nil:
			fmt.Fprintf(tw, "%d\t%s\t%s\t-\tERROR: %v\t%s\n", i+1, ref.Kind, target.Source, err, target.Title)
		case !target.Found():
			fmt.Fprintf(tw, "%d\t%s\t%s\t-\tNO_TEMPLATE_FOUND\t%s\n", i+1, ref.Kind, target.Source, target.Title)
		default:
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, ref.Kind, target.Source, target.TemplateID, target.URL, target.Title)
		}
	}
	return tw.Flush()
}
