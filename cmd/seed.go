package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tc-migrate/internal/engine"
)

var (
	seedCount    int
	seedCases    int
	seedRandSeed int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic legacy problems for trial migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		if seedCases <= 0 {
			return fmt.Errorf("--cases must be positive")
		}

		settings := GetMigrationSettings(viper.GetViper())
		s, err := openStore(settings)
		if err != nil {
			return err
		}

		if seedRandSeed == 0 {
			seedRandSeed = time.Now().UnixNano()
		}
		f := gofakeit.New(seedRandSeed)

		uiprogress.Start()
		bar := uiprogress.AddBar(seedCount).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Seeding: "
		})

		ctx := context.Background()
		inserted := 0
		for i := 0; i < seedCount; i++ {
			rec, _ := engine.GenerateLegacyRecord(f, f.Number(1, seedCases))
			if err := s.InsertLegacyRecord(ctx, rec); err != nil {
				logger.Warn("Seed insert failed", zap.String("title", rec.Title), zap.Error(err))
			} else {
				inserted++
			}
			bar.Incr()
		}
		uiprogress.Stop()

		fmt.Printf("🌱 Inserted %d/%d legacy problems into %s (seed %d)\n",
			inserted, seedCount, settings.SourceTable, seedRandSeed)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedCount, "count", 20, "Number of problems to insert")
	seedCmd.Flags().IntVar(&seedCases, "cases", 5, "Maximum test cases per problem")
	seedCmd.Flags().Int64Var(&seedRandSeed, "seed", 0, "Random seed (0 = time based)")
}
