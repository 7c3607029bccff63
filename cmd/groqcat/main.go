// Command groqcat lists, renders, verifies and snapshots the named GROQ
// queries of the site.
package main

import (
	"context"
	"fmt"
	"groqkit"
	"groqkit/catalog"
	"groqkit/common"
	"groqkit/config"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	queries *groqkit.Queries
}

func (a *app) setup(cmd *cobra.Command) (err error) {
	if a.cfg, err = config.Load(); err != nil {
		return
	}
	if a.logger, err = a.cfg.Logger(cmd.ErrOrStderr()); err != nil {
		return
	}
	reg, err := groqkit.DefaultRegistry()
	if err != nil {
		return
	}
	a.queries, err = groqkit.New(reg,
		groqkit.WithRelatedLimit(a.cfg.RelatedLimit),
		groqkit.WithSearchLimit(a.cfg.SearchLimit))
	return
}

func (a *app) open(ctx context.Context) (*catalog.Store, error) {
	return catalog.Open(ctx, a.cfg.DBPath, catalog.Config{Logger: a.logger})
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "groqcat",
		Short:         "Inspect the named GROQ queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every named query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tUSE CASE\tEXAMPLE")
			for _, n := range groqkit.Catalog() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.Name, n.Type, n.UseCase, n.Example)
			}
			return w.Flush()
		},
	}

	var options string
	var body bool
	renderCmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a named query with JSON options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("options") {
				n, err := groqkit.Lookup(args[0])
				if err != nil {
					return err
				}
				options = n.Example
			}
			d, err := a.queries.Render(args[0], options)
			if err != nil {
				return err
			}
			return writeDescriptor(cmd.OutOrStdout(), d, body)
		},
	}
	renderCmd.Flags().StringVarP(&options, "options", "o", "", "JSON options object (defaults to the catalog example)")
	renderCmd.Flags().BoolVar(&body, "body", false, "print the HTTP request body instead of text and params")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check projection compatibility and placeholder parity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.verify(cmd.OutOrStdout())
		},
	}

	var label string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot every rendered query into the catalog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entries, err := catalog.Snapshot(a.queries)
			if err != nil {
				return err
			}
			store, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			run, err := store.SaveRun(ctx, label, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d queries\n", run.Id, run.Entries)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&label, "label", "l", "", "label stored with the run")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List export runs and diff the latest two",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			return history(ctx, cmd.OutOrStdout(), store)
		},
	}

	root.AddCommand(listCmd, renderCmd, verifyCmd, exportCmd, historyCmd)
	return root
}

func writeDescriptor(w io.Writer, d common.Descriptor, body bool) error {
	if body {
		b, err := d.RequestBody()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	_, err := fmt.Fprintln(w, d.String())
	return err
}

func (a *app) verify(w io.Writer) error {
	if err := a.queries.Registry().Verify(); err != nil {
		return err
	}
	failed := 0
	for _, n := range groqkit.Catalog() {
		d, err := n.Render(a.queries, n.Example)
		if err == nil {
			err = d.Check()
		}
		if err != nil {
			failed++
			a.logger.Error().Err(err).Str("query", n.Name).Msg("verify failed")
			continue
		}
		a.logger.Debug().Str("query", n.Name).Msg("verified")
	}
	if failed > 0 {
		return errors.Errorf("%d queries failed verification", failed)
	}
	fmt.Fprintf(w, "ok: %d queries, %d content types\n", len(groqkit.Catalog()), len(a.queries.Registry().Types()))
	return nil
}

func history(ctx context.Context, w io.Writer, store *catalog.Store) error {
	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tLABEL\tQUERIES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Id, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Label, r.Entries)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(runs) < 2 {
		return nil
	}
	changes, err := store.Diff(ctx, runs[1].Id, runs[0].Id)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(w, "no changes since previous run")
		return nil
	}
	for _, c := range changes {
		fmt.Fprintf(w, "%s %s\n", c.Kind, c.Name)
		if c.From != "" {
			fmt.Fprintf(w, "  - %s\n", c.From)
		}
		if c.To != "" {
			fmt.Fprintf(w, "  + %s\n", c.To)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
