package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/apple-arcade/internal/games/apples"
	"github.com/vovakirdan/apple-arcade/internal/platform/tui"
	"github.com/vovakirdan/apple-arcade/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game. Without a game, shows the apple
game mode picker (Timed, Zen, or a difficulty).

Controls:
  Mouse drag         - Select a rectangle, release to pick
  Arrows/WASD/HJKL   - Move the cursor
  Space/Enter        - Anchor, then commit the selection
  X                  - Cancel the selection
  ?                  - Show a hint
  P                  - Pause
  R                  - Restart
  B/Esc              - Back (when paused or over)
  Q/Ctrl+C           - Quit

Difficulty options:
  easy   - 3:00 on the clock
  normal - 2:00 on the clock
  hard   - 1:30 on the clock
  fixed  - Time limit from the config file

Examples:
  arcade play
  arcade play apples
  arcade play apples_zen
  arcade play apples --difficulty hard
  arcade play apples --config ./my-apples.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	if _, err := configureApples(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := runtimeConfig()
	difficulty := flagDifficulty

	var gameID string
	if len(args) == 1 {
		gameID = args[0]
	} else {
		// Show the mode selector
		selection, updatedCfg, err := tui.RunApplesModeSelector(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			return
		}
		gameID = selection.GameID
		if selection.Difficulty != "" {
			difficulty = selection.Difficulty
		}
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	if g, ok := game.(*apples.Game); ok && difficulty != "" {
		g.SetDifficulty(difficulty)
	}

	store := openStore()

	// Run the game
	runErr := tui.Run(game, store, cfg, playerName())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
