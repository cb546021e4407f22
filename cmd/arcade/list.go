package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/apple-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every game in the arcade with its modes indented underneath.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.Games()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	width := len("ID")
	for _, g := range registry.List() {
		width = max(width, len(g.ID)+2)
	}

	fmt.Println("Available games:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", width, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", width, "--", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", width, g.ID, g.Title)
		for _, v := range registry.Variants(g.ID) {
			fmt.Printf("  %-*s  %s\n", width, "  "+v.ID, v.Title)
		}
	}

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play a game, or 'arcade play' to pick a mode.")
}
