package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/service"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		pages     int
		sortBy    string
		sortOrder string
		minRating float64
		minAge    int
		maxAge    int
		locations []string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Run a search and print the filtered results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := opts.engine(cmd)

			update := service.FilterUpdate{Locations: locations}
			flags := cmd.Flags()
			if flags.Changed("sort") {
				key := domain.SortKey(sortBy)
				update.SortBy = &key
			}
			if flags.Changed("order") {
				order := domain.SortOrder(sortOrder)
				update.SortOrder = &order
			}
			if flags.Changed("min-rating") {
				update.MinRating = &minRating
			}
			if flags.Changed("min-age") || flags.Changed("max-age") {
				update.AgeRange = &domain.AgeRange{Min: minAge, Max: maxAge}
			}
			svc.SetFilters(update)

			st, err := svc.Submit(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			for i := 1; i < pages && st.Pagination.HasMore; i++ {
				if st, err = svc.LoadMore(ctx); err != nil {
					return err
				}
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			return writeTable(cmd.OutOrStdout(), st)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&pages, "pages", "p", 1, "number of pages to load")
	f.StringVar(&sortBy, "sort", string(domain.SortRelevance), "sort key: relevance, name, age, rating or location")
	f.StringVar(&sortOrder, "order", string(domain.SortDesc), "sort order: asc or desc")
	f.Float64Var(&minRating, "min-rating", domain.DefaultMinRating, "minimum rating, clamped to [0,5]")
	f.IntVar(&minAge, "min-age", domain.DefaultMinAge, "exclusive lower age bound")
	f.IntVar(&maxAge, "max-age", domain.DefaultMaxAge, "inclusive upper age bound")
	f.StringSliceVarP(&locations, "location", "l", nil, "only show these locations (repeatable)")
	return cmd
}

type searchOutput struct {
	Query        string                `json:"query"`
	Page         int                   `json:"page"`
	TotalResults int                   `json:"totalResults"`
	HasMore      bool                  `json:"hasMore"`
	ActiveFilter int                   `json:"activeFilters"`
	Results      []domain.SearchResult `json:"results"`
}

func writeJSON(w io.Writer, st service.State) error {
	results := st.Filtered
	if results == nil {
		results = []domain.SearchResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchOutput{
		Query:        st.ActiveQuery,
		Page:         st.Pagination.CurrentPage,
		TotalResults: st.Pagination.DisplayTotal,
		HasMore:      st.Pagination.HasMore,
		ActiveFilter: st.FilterCount,
		Results:      results,
	})
}

func writeTable(w io.Writer, st service.State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tAGE\tLOCATION\tRATING\tREFERENCES")
	for _, r := range st.Filtered {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f\t%d\n", r.Name, r.Age, r.Location, r.Rating, r.References)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nShowing %d of %d results for %q (page %d)\n",
		len(st.Filtered), st.Pagination.DisplayTotal, st.ActiveQuery, st.Pagination.CurrentPage)
	return err
}
