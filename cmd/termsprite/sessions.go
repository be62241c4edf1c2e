package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/termsprite/internal/storage"
)

var flagSessionLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent play sessions",
	Long: `Display the most recent play sessions, local and over SSH.

Examples:
  termsprite sessions
  termsprite sessions --limit 25`,
	Args: cobra.NoArgs,
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionLimit, "limit", 10, "Number of sessions to show")
}

func runSessions(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening sprite library", err)
	}
	defer store.Close()

	sessions, err := store.RecentSessions(flagSessionLimit)
	if err != nil {
		fail("retrieving sessions", err)
	}

	fmt.Println("Recent Sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'termsprite play' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-8s  %-8s  %-10s  %s\n", "ID", "Scene", "Ticks", "Culled", "Duration", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-8s  %-10s  %s\n", "--", "-----", "-----", "------", "--------", "----")

	for _, s := range sessions {
		fmt.Printf("  %-4d  %-16s  %-8d  %-8d  %-10s  %s\n",
			s.ID, s.Scene, s.Ticks, s.Culled, s.Duration.Round(time.Second), s.CreatedAt.Format("2006-01-02 15:04"))
	}
}
