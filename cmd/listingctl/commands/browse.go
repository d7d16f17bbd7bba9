package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cache_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/cache"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/usecase"
)

type browseOptions struct {
	filters      domain.FilterSpec
	priceRange   string
	sort         string
	page         int
	pageSize     int
	prevPageSize int
	server       bool
	query        string
}

// browse: прогнать фильтр, сортировку и пагинацию по файлу со снимком.
func browseCmd(root *rootOptions) *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Filter, sort and paginate listings from a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := loadSnapshot(root.file)
			if err != nil {
				return err
			}

			repo := &snapshotRepository{items: listings}
			cache := cache_adapter.NewMemoryCache()
			browse := usecase.NewBrowseListingsUseCase(repo, cache, usecase.NewSourceVersion(), nil, nil, usecase.BrowseConfig{MemoTTL: time.Minute})

			opts.filters.PriceRange = domain.PriceRange(opts.priceRange)
			req := domain.BrowseRequest{
				Filters:          opts.filters,
				Sort:             domain.SortKey(opts.sort),
				Page:             opts.page,
				PageSize:         opts.pageSize,
				PreviousPageSize: opts.prevPageSize,
			}

			switch {
			case strings.TrimSpace(opts.query) != "":
				snapshot, err := usecase.NewCreateSearchSnapshotUseCase(repo, cache, time.Minute, 0).Execute(cmd.Context(), opts.query)
				if err != nil {
					return err
				}
				req.SnapshotID = snapshot.ID
			case !opts.server:
				req.Snapshot = listings
			}

			res := browse.Execute(cmd.Context(), req)
			if res.Failed {
				return fmt.Errorf("browse failed: %w", res.Err)
			}
			return writePage(cmd.OutOrStdout(), root.output, newPageView(res))
		},
	}

	cmd.Flags().StringVar(&opts.filters.Location, "location", "", "location substring (city or state)")
	cmd.Flags().StringVar(&opts.filters.PropertyType, "type", domain.AllTypes, "property type, AllTypes for any")
	cmd.Flags().StringVar(&opts.filters.Category, "category", domain.AnyCategory, "For Sale / For Rent, Any for both")
	cmd.Flags().StringVar(&opts.priceRange, "price", string(domain.AnyPrice), "AnyPrice, Under100k, 100kTo200k, 400kTo500k")
	cmd.Flags().StringVar(&opts.sort, "sort", string(domain.SortDefault), "default, price-low, price-high, name")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 12, "page size")
	cmd.Flags().IntVar(&opts.prevPageSize, "prev-page-size", 0, "page size before this request; a change resets the page")
	cmd.Flags().BoolVar(&opts.server, "server", false, "emulate the server-backed mode instead of the client-only one")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "search the snapshot first and browse the search results")
	return cmd
}
