package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/apple-arcade/internal/registry"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

var (
	flagRounds int
	flagMine   bool
	flagClear  bool
	flagAll    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a game",
	Long: `Display the top 10 high scores for the specified game, followed by
round statistics and the most recent rounds. Without a game, shows a
summary of every game played.

Examples:
  arcade scores
  arcade scores apples
  arcade scores apples --all
  arcade scores apples --rounds 20
  arcade scores apples --mine --player alice
  arcade scores apples --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRounds, "rounds", 5, "Number of recent rounds to show (0 to hide)")
	scoresCmd.Flags().BoolVar(&flagMine, "mine", false, "Show recent rounds of --player only")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and rounds of the game")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "List every score instead of the top 10")
}

func runScores(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		runScoresSummary()
		return
	}
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared all scores for %s.\n", title)
		return
	}

	var scores []storage.ScoreEntry
	if flagAll {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
	} else {
		printScores(scores)

		fmt.Println()
		if highScore, err := store.HighScore(gameID); err == nil {
			fmt.Printf("Best: %d\n", highScore)
		}
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		printStats(stats)
	}

	if flagRounds > 0 {
		printRecentRounds(store, gameID)
	}
}

// runScoresSummary prints one line per game that has scores.
func runScoresSummary() {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	all, err := store.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-12s  %-6s  %-6s  %-7s  %s\n", "Game", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-12s  %-6s  %-6s  %-7s  %s\n", "----", "-----", "----", "-------", "-----------")
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-12s  %-6d  %-6d  %-7.1f  %s\n",
			st.GameID, st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func printScores(scores []storage.ScoreEntry) {
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-6d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}
}

func printStats(stats *storage.GameStats) {
	fmt.Printf("Scored games: %d  Average: %.1f", stats.GamesCount, stats.AvgScore)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("  Last played: %s", stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	if len(stats.Outcomes) == 0 {
		return
	}
	outcomes := make([]string, 0, len(stats.Outcomes))
	for o := range stats.Outcomes {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)

	fmt.Print("Rounds:")
	for _, o := range outcomes {
		fmt.Printf("  %s %d", o, stats.Outcomes[o])
	}
	fmt.Println()
}

func printRecentRounds(store *storage.Store, gameID string) {
	var (
		rounds []storage.RoundResult
		err    error
	)
	if flagMine {
		rounds, err = store.PlayerRounds(playerName(), flagRounds)
	} else {
		rounds, err = store.RecentRounds(gameID, flagRounds)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rounds: %v\n", err)
		return
	}
	if len(rounds) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent rounds:")
	fmt.Printf("  %-16s  %-6s  %-10s  %-8s  %s\n", "Player", "Score", "Outcome", "Time", "Date")
	for _, r := range rounds {
		fmt.Printf("  %-16s  %-6d  %-10s  %-8s  %s\n",
			r.Player, r.Score, r.Outcome, formatDuration(r.DurationSecs), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
