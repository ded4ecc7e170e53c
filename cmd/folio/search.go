package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/discovery"
	"github.com/pders01/folio/internal/shelf"
)

type searchOptions struct {
	sort      string
	length    string
	period    string
	hideOwned bool
	page      int
	pageSize  int
	preset    string
}

func (c *cli) newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the catalog and print one page of results",
		Long: `Search the catalog and print one page of results.

The query understands two inline directives:
  language:xx (or lang:xx)      restrict results to a language
  orderBy=newest|relevance      ask the catalog for an ordering`,
		Example: `  folio search victor hugo language:fr --sort date-desc
  folio search --preset best-sellers --length short --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sort, "sort", "", "Sort: relevance, pages-asc, pages-desc, date-desc, rating-desc")
	f.StringVar(&opts.length, "length", "all", "Length: all, short, medium, long")
	f.StringVar(&opts.period, "period", "all", "Period: all, recent, modern, older")
	f.BoolVar(&opts.hideOwned, "hide-owned", false, "Hide books already on the shelf")
	f.IntVar(&opts.page, "page", 1, "Page to print, starting at 1")
	f.IntVar(&opts.pageSize, "page-size", 0, "Results per page (overrides config)")
	f.StringVar(&opts.preset, "preset", "", "Run a preset instead of a query")
	return cmd
}

func (o *searchOptions) criteria() (discovery.FilterCriteria, error) {
	length, err := discovery.ParseLengthBucket(o.length)
	if err != nil {
		return discovery.FilterCriteria{}, err
	}
	period, err := discovery.ParsePeriodBucket(o.period)
	if err != nil {
		return discovery.FilterCriteria{}, err
	}
	return discovery.FilterCriteria{Length: length, Period: period, HideOwned: o.hideOwned}, nil
}

func (c *cli) runSearch(cmd *cobra.Command, query string, opts *searchOptions) error {
	if strings.TrimSpace(query) == "" && opts.preset == "" {
		return errors.New("a query or --preset is required")
	}
	criteria, err := opts.criteria()
	if err != nil {
		return err
	}
	if err := c.setup(); err != nil {
		return err
	}

	store, err := c.openShelf()
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := c.newSession(store)
	if err != nil {
		return err
	}

	if opts.sort != "" {
		mode, err := discovery.ParseSortMode(opts.sort)
		if err != nil {
			return err
		}
		session.SetSort(mode)
	}
	if opts.pageSize > 0 {
		session.SetPageSize(opts.pageSize)
	}

	ctx := cmd.Context()
	if opts.preset != "" {
		err = session.SelectPreset(ctx, opts.preset)
		// An explicit --sort wins over the preset's.
		if opts.sort != "" {
			mode, _ := discovery.ParseSortMode(opts.sort)
			session.SetSort(mode)
		}
	} else {
		err = session.Search(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	session.SetCriteria(criteria)
	session.GoToPage(opts.page - 1)

	printView(cmd.OutOrStdout(), session.View(), store)
	return nil
}

func printView(w io.Writer, v discovery.View, store *shelf.Store) {
	switch v.State {
	case discovery.StateIdle:
		fmt.Fprintln(w, "Nothing to search for.")
		return
	case discovery.StateNoResults:
		fmt.Fprintf(w, "No results for '%s'.\n", strings.TrimSpace(v.Query))
		return
	case discovery.StateFilteredOut:
		fmt.Fprintf(w, "All %d results are hidden by the current filters.\n", v.Raw)
		return
	}

	fmt.Fprintln(w, v.Label)
	fmt.Fprintln(w)
	first := v.Page.Index*v.Page.Size + 1
	for i, it := range v.Page.Visible {
		authors := discovery.JoinAuthors(it.Authors)
		line := fmt.Sprintf("%2d. %s by %s", first+i, it.Title, authors)
		if facts := itemFacts(it); facts != "" {
			line += " (" + facts + ")"
		}
		if store != nil && store.IsOwned(it.Title, authors) {
			line += " [on shelf]"
		}
		fmt.Fprintln(w, line)
		if it.InfoURL != "" {
			fmt.Fprintf(w, "    %s\n", it.InfoURL)
		}
	}
}

func itemFacts(it catalog.Item) string {
	var facts []string
	if year, ok := discovery.PublicationYear(it.PublishedDate); ok {
		facts = append(facts, fmt.Sprintf("%d", year))
	}
	if it.PageCount != nil {
		facts = append(facts, fmt.Sprintf("%d p.", *it.PageCount))
	}
	if it.AverageRating != nil {
		facts = append(facts, fmt.Sprintf("★ %.1f", *it.AverageRating))
	}
	return strings.Join(facts, ", ")
}

func (c *cli) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the query presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.setup(); err != nil {
				return err
			}
			reg, err := c.cfg.PresetRegistry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range reg.All() {
				fmt.Fprintf(out, "%-20s %s\n", p.ID, p.Label)
				fmt.Fprintf(out, "%-20s query: %s\n", "", p.Query)
				if p.Sort != nil {
					fmt.Fprintf(out, "%-20s sort:  %s\n", "", *p.Sort)
				}
			}
			return nil
		},
	}
}
