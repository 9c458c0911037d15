package cmd

import (
	"fmt"

	"github.com/abhisek/rhythmiz/internal/app"
	"github.com/abhisek/rhythmiz/internal/store"
	"github.com/abhisek/rhythmiz/internal/tracker"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		events := st.EventRepo()
		xp, err := events.XPTotal(ctx, app.ModuleTag)
		if err != nil {
			return fmt.Errorf("load xp: %w", err)
		}
		counts, err := events.ActivityCounts(ctx, app.ModuleTag)
		if err != nil {
			return fmt.Errorf("load activity: %w", err)
		}

		track := tracker.New(app.ModuleTag, st.ProgressRepo())
		if err := track.Load(ctx); err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		fmt.Printf("Total XP:          %d\n", xp)
		fmt.Printf("Questions answered: %d\n", counts["evaluation"])
		fmt.Printf("Patterns mastered:  %d\n", len(track.MasteredSet()))

		if pairs := track.PairCounts(); len(pairs) > 0 {
			fmt.Println("\nMost confused durations (expected:given):")
			for i, pc := range pairs {
				if i == 5 {
					break
				}
				fmt.Printf("  %-22s %d\n", pc.Pair, pc.Count)
			}
		}
		return nil
	},
}
