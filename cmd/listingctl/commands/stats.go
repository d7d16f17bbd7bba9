package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/usecase"
)

func statsCmd(root *rootOptions) *cobra.Command {
	var groupBy []string
	var maxPages int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count listings per group (status, location, type, agent, purpose, bedrooms, price, geohash)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := loadSnapshot(root.file)
			if err != nil {
				return err
			}

			fields := make([]domain.GroupField, 0, len(groupBy))
			for _, f := range groupBy {
				fields = append(fields, domain.GroupField(strings.ToLower(strings.TrimSpace(f))))
			}

			stats, err := usecase.NewListingStatsUseCase(&snapshotRepository{items: listings}, nil, maxPages).Execute(cmd.Context(), fields)
			if err != nil {
				return err
			}

			views := make([]groupView, 0, len(fields))
			for _, f := range fields {
				view := groupView{Field: string(f), Groups: make([]groupCountView, 0, len(stats.Groups[f]))}
				for _, g := range stats.Groups[f] {
					view.Groups = append(view.Groups, groupCountView{Key: g.Key, Count: g.Count})
				}
				views = append(views, view)
			}
			return writeGroups(cmd.OutOrStdout(), root.output, views, stats.TotalScanned)
		},
	}

	cmd.Flags().StringSliceVar(&groupBy, "group-by", []string{string(domain.GroupByStatus)}, "fields to group by (repeatable or comma separated)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 1000, "stop after this many repository pages")
	return cmd
}
