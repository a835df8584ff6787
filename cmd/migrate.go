package cmd

import (
	"context"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tc-migrate/internal/engine"
	"tc-migrate/internal/schema"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the legacy test-case migration once and print a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := GetMigrationSettings(viper.GetViper())

		s, err := openStore(settings)
		if err != nil {
			return err
		}
		if settings.Preflight {
			if err := s.Preflight(SchemaName); err != nil {
				return fmt.Errorf("schema preflight failed: %w", err)
			}
		}

		uiprogress.Start()
		var bar *uiprogress.Bar
		m := engine.New(s,
			engine.WithLogger(logger),
			engine.WithSourceTag(settings.SourceTag),
			engine.WithDefaultDifficulty(settings.DefaultDifficulty),
			engine.WithWorkers(settings.Workers),
			engine.WithDryRun(migrateDryRun),
			engine.WithProgress(func(done, total int) {
				if bar == nil {
					bar = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
					bar.PrependFunc(func(b *uiprogress.Bar) string {
						return "Migrating: "
					})
				}
				bar.Set(done)
			}),
		)

		report, err := m.Run(context.Background())
		uiprogress.Stop()
		if err != nil {
			return err
		}

		printReport(report, migrateDryRun)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Parse and report without writing to the DB")
	migrateCmd.Flags().Int("limit", 0, "Only migrate the first N legacy problems (by id)")
	migrateCmd.Flags().Int("workers", 0, "Concurrent inserts per problem (overrides config)")
	migrateCmd.Flags().String("tag", "", "Provenance tag written to the source column (overrides config)")
	migrateCmd.Flags().Bool("preflight", true, "Check table columns before migrating")

	viper.BindPFlag("migration.limit", migrateCmd.Flags().Lookup("limit"))
	viper.BindPFlag("migration.workers", migrateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("migration.source_tag", migrateCmd.Flags().Lookup("tag"))
	viper.BindPFlag("migration.preflight", migrateCmd.Flags().Lookup("preflight"))
}

func printReport(report *schema.MigrationReport, dryRun bool) {
	title := "📊 Migration Report"
	if dryRun {
		title = "🔍 Migration Report [SIMULATION]"
	}
	fmt.Printf("\n%s (run %s):\n", title, report.RunID)

	for i, r := range report.Details {
		icon := "✓"
		switch {
		case r.Error != "":
			icon = "✗"
		case r.ParsedCount == 0:
			icon = "-"
		case r.MigratedCount < r.ParsedCount && !dryRun:
			icon = "!"
		}

		verified := ""
		if r.VerifiedCount != nil {
			verified = fmt.Sprintf(" (Verified: %d)", *r.VerifiedCount)
		}
		fmt.Printf("[%s] [%02d/%02d] #%-6d %-30s : %d/%d cases%s\n",
			icon, i+1, len(report.Details), r.ProblemID, r.Title, r.MigratedCount, r.ParsedCount, verified)
		if r.Error != "" {
			fmt.Printf("    └ Error: %s\n", r.Error)
		}
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("Problems Processed : %d\n", report.Summary.ProblemsProcessed)
	fmt.Printf("Test Cases Migrated: %d\n", report.Summary.TestCasesMigrated)
	fmt.Printf("Errors             : %d\n", report.Summary.Errors)
	fmt.Printf("Time Elapsed       : %s\n", report.Elapsed)
}
