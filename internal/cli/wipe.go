package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all data from the store",
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVarP(&wipeForce, "force", "f", false, "skip the confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	if !wipeForce {
		fmt.Printf("This deletes ALL jobs, candidates, timelines and assessments from %s/%s. Continue? [y/N] ",
			cfg.SurrealDBNamespace, cfg.SurrealDBDatabase)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := dbClient.WipeData(cmd.Context()); err != nil {
		return fmt.Errorf("wipe store: %w", err)
	}
	fmt.Println("Store wiped.")
	return nil
}
