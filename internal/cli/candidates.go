package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentflow/talentflow/internal/board"
	"github.com/talentflow/talentflow/internal/models"
	"github.com/talentflow/talentflow/internal/repo"
)

var (
	candidatesStage  string
	candidatesJob    string
	candidatesSearch string
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Show the candidate kanban",
	Long: `Show the candidate kanban through the HTTP API.

Subcommands:
  move ID STAGE  Move a candidate to another pipeline stage
  timeline ID    Show a candidate's stage history

Examples:
  talentflow candidates
  talentflow candidates --stage tech
  talentflow candidates --search ada
  talentflow candidates move candidate-uuid offer
  talentflow candidates timeline candidate-uuid`,
	RunE: runCandidatesList,
}

var candidatesMoveCmd = &cobra.Command{
	Use:   "move ID STAGE",
	Short: "Move a candidate to another pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE:  runCandidatesMove,
}

var candidatesTimelineCmd = &cobra.Command{
	Use:   "timeline ID",
	Short: "Show a candidate's stage history",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidatesTimeline,
}

func init() {
	candidatesCmd.Flags().StringVarP(&candidatesStage, "stage", "s", "", "filter by stage")
	candidatesCmd.Flags().StringVar(&candidatesJob, "job", "", "filter by job id")
	candidatesCmd.Flags().StringVar(&candidatesSearch, "search", "", "search in name and email")

	candidatesCmd.AddCommand(candidatesMoveCmd)
	candidatesCmd.AddCommand(candidatesTimelineCmd)
}

func runCandidatesList(cmd *cobra.Command, args []string) error {
	repos := repo.NetworkRepositories(apiClient())

	list, err := repos.Candidates.List(cmd.Context(), models.CandidateFilter{
		Search: candidatesSearch,
		Stage:  models.Stage(candidatesStage),
		JobID:  candidatesJob,
	})
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}

	if list.Meta.Total == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	buckets := make(map[models.Stage][]models.Candidate)
	for _, c := range list.Data {
		buckets[c.Stage] = append(buckets[c.Stage], c)
	}

	titles := repos.Titles
	fmt.Printf("Candidates (%d total):\n", list.Meta.Total)
	for _, stage := range models.Stages() {
		bucket := buckets[stage]
		if len(bucket) == 0 {
			continue
		}
		fmt.Printf("\n%s (%d)\n", stage, len(bucket))
		if !verbose {
			continue
		}
		for _, c := range bucket {
			title, err := titles.Title(cmd.Context(), c.JobID)
			if err != nil {
				title = c.JobID
			}
			fmt.Printf("  - %s <%s>  %s\n", c.Name, c.Email, title)
		}
	}
	return nil
}

// runCandidatesMove drives the optimistic kanban over the network backend.
func runCandidatesMove(cmd *cobra.Command, args []string) error {
	id, stage := args[0], models.Stage(args[1])
	if !models.ValidStage(stage) {
		return fmt.Errorf("unknown stage %q, expected one of %v", stage, models.Stages())
	}

	repos := repo.NetworkRepositories(apiClient())
	b := board.NewCandidateBoard(repos.Candidates, logger,
		board.WithCandidateErrorHandler(func(action string, err error) {
			fmt.Printf("%s: %v\n", action, err)
		}))
	defer b.Close()

	if err := b.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load board: %w", err)
	}

	res := b.MoveStage(cmd.Context(), id, stage)
	if res.Err != nil && !res.RolledBack {
		return res.Err
	}

	if res.Committed {
		fmt.Printf("Moved to %s.\n", stage)
	} else {
		fmt.Println("Move rolled back, board restored.")
	}
	return nil
}

func runCandidatesTimeline(cmd *cobra.Command, args []string) error {
	events, err := apiClient().Timeline(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch timeline: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No timeline events.")
		return nil
	}

	for _, e := range events {
		fmt.Printf("%s  %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Message)
	}
	return nil
}
