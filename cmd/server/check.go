package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"starquest/internal/game"
)

// check surfaces content-authoring bugs (dangling node ids, malformed
// option payloads) at build time instead of at first navigation.
var checkCmd = &cobra.Command{
	Use:   "check <story.yaml> [more...]",
	Short: "Validate story content files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		story, err := game.LoadStory(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cmd.Printf("%s: ok (%q, %d nodes)\n", path, story.Title, len(story.Nodes))
	}
	return nil
}
