package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ytget/cargo-manager/internal/config"
	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/registry"
	"github.com/ytget/cargo-manager/internal/search"
)

// DescriptionWidth bounds the description column of search output
const DescriptionWidth = 60

type searchOptions struct {
	limit int
	sort  string
}

func newSearchCommand(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search crates.io and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := registry.ParseOrder(opts.sort)
			if err != nil {
				return err
			}

			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}
			if cmd.Flags().Changed("limit") {
				cfg.Search.Limit = registry.ClampLimit(opts.limit)
			}

			query := strings.Join(args, " ")
			client := registry.NewClient(cfg.Registry.URL, cfg.Registry.UserAgent, registry.WithTimeout(cfg.Registry.Timeout))

			rs, err := searchOnce(cmd.Context(), client, query, cfg.Search)
			if err != nil {
				return err
			}
			printResults(cmd.OutOrStdout(), rs, registry.Rank(rs.Crates, query, order))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", search.DefaultLimit, "Maximum number of crates to fetch")
	cmd.Flags().StringVar(&opts.sort, "sort", string(registry.OrderRelevance), "Result order: relevance, name or downloads")
	return cmd
}

// searchOnce runs a single dispatcher round and waits for its result
func searchOnce(ctx context.Context, searcher search.Searcher, query string, cfg config.SearchConfig) (*model.ResultSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ready := make(chan struct{}, 1)
	d := search.New(searcher,
		search.WithLimit(cfg.Limit),
		search.WithTimeout(cfg.Timeout),
		search.WithNotify(func() {
			select {
			case ready <- struct{}{}:
			default:
			}
		}),
	)
	defer d.Close()

	d.Submit(query)

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	res, ok := d.Poll()
	if !ok {
		return nil, errors.New("search result was not delivered")
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Results, nil
}

func printResults(w io.Writer, rs *model.ResultSet, crates []model.Crate) {
	if len(crates) == 0 {
		printf(w, "No crates found for %q\n", rs.Query)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	printf(tw, "NAME\tVERSION\tDOWNLOADS\tDESCRIPTION\n")
	for _, c := range crates {
		printf(tw, "%s\t%s\t%d\t%s\n", c.Name, c.MaxVersion, c.Downloads, truncate(c.DisplayDescription(), DescriptionWidth))
	}
	_ = tw.Flush()

	if rs.HasMore() {
		printf(w, "\nShowing %d of %d crates\n", rs.Len(), rs.Total)
	}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
