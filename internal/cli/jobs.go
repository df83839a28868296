package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/talentflow/talentflow/internal/board"
	"github.com/talentflow/talentflow/internal/models"
	"github.com/talentflow/talentflow/internal/repo"
)

var (
	jobsStatus   string
	jobsSearch   string
	jobsPage     int
	jobsPageSize int
	jobsSort     string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs or reorder the board",
	Long: `List the jobs board through the HTTP API.

Subcommands:
  reorder FROM TO  Move the job at rank FROM to rank TO

Examples:
  talentflow jobs
  talentflow jobs --status active --search engineer
  talentflow jobs --page 2 --page-size 10
  talentflow jobs reorder 5 1`,
	RunE: runJobsList,
}

var jobsReorderCmd = &cobra.Command{
	Use:   "reorder FROM TO",
	Short: "Move the job at rank FROM to rank TO",
	Args:  cobra.ExactArgs(2),
	RunE:  runJobsReorder,
}

func init() {
	jobsCmd.Flags().StringVarP(&jobsStatus, "status", "s", "", "filter by status (active, archived)")
	jobsCmd.Flags().StringVar(&jobsSearch, "search", "", "search in title and tags")
	jobsCmd.Flags().IntVar(&jobsPage, "page", 1, "page number")
	jobsCmd.Flags().IntVar(&jobsPageSize, "page-size", 10, "items per page")
	jobsCmd.Flags().StringVar(&jobsSort, "sort", "order", "sort field (order, title, created_at)")

	jobsCmd.AddCommand(jobsReorderCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	page, err := apiClient().ListJobs(cmd.Context(), models.JobFilter{
		Search:   jobsSearch,
		Status:   jobsStatus,
		Page:     jobsPage,
		PageSize: jobsPageSize,
		Sort:     jobsSort,
	})
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(page.Data) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	fmt.Printf("Jobs (page %d/%d, %d total):\n\n", page.Meta.Page, page.Meta.TotalPages, page.Meta.Total)
	for _, job := range page.Data {
		marker := " "
		if job.Status == models.JobStatusArchived {
			marker = "A"
		}
		fmt.Printf("%3d %s %s\n", job.Order, marker, job.Title)
		if verbose {
			fmt.Printf("      slug: %s  tags: %v\n", job.Slug, job.Tags)
		}
	}
	return nil
}

// runJobsReorder drives the optimistic board over the network backend, so a
// chaos-injected failure exercises the rollback path end to end.
func runJobsReorder(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("FROM must be a rank: %w", err)
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("TO must be a rank: %w", err)
	}

	repos := repo.NetworkRepositories(apiClient())
	b := board.NewJobBoard(repos.Jobs, logger,
		board.WithJobErrorHandler(func(action string, err error) {
			fmt.Printf("%s: %v\n", action, err)
		}))
	defer b.Close()

	if err := b.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load board: %w", err)
	}

	res := b.Reorder(cmd.Context(), from, to)
	if res.Err != nil && !res.RolledBack {
		return res.Err
	}

	if res.Committed {
		fmt.Println("Reorder confirmed.")
	} else {
		fmt.Println("Reorder rolled back, board restored.")
	}

	fmt.Println()
	for _, job := range b.Jobs() {
		fmt.Printf("%3d  %s\n", job.Order, job.Title)
	}
	return nil
}
