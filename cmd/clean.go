package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete rows written by previous migration runs",
	Long: `Delete every row of the normalized test-case table whose source column
carries the migration's provenance tag. Rows from any other source are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := GetMigrationSettings(viper.GetViper())

		s, err := openStore(settings)
		if err != nil {
			return err
		}
		ctx := context.Background()

		if cleanDryRun {
			counts, err := s.CountBySource(ctx, settings.SourceTag)
			if err != nil {
				return err
			}
			total := 0
			for _, n := range counts {
				total += n
			}
			fmt.Printf("🔍 [SIMULATION] %d rows tagged %q across %d problems would be deleted\n",
				total, settings.SourceTag, len(counts))
			return nil
		}

		deleted, err := s.DeleteBySource(ctx, settings.SourceTag)
		if err != nil {
			return err
		}
		logger.Info("Cleaned migrated rows",
			zap.String("table", settings.TargetTable),
			zap.String("source_tag", settings.SourceTag),
			zap.Int64("deleted", deleted))
		fmt.Printf("🧹 Deleted %d rows tagged %q from %s\n", deleted, settings.SourceTag, settings.TargetTable)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Count the rows instead of deleting them")
}
