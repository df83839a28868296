package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentflow/talentflow/internal/seed"
)

var (
	seedJobs        int
	seedCandidates  int
	seedAssessments int
	seedValue       uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with generated hiring data",
	Long: `Populate the store with generated jobs, candidates and assessments.

Writes go straight to SurrealDB, bypassing the chaos boundary. The run is
skipped when the store already holds jobs.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedJobs, "jobs", seed.DefaultCounts.Jobs, "number of jobs to create")
	seedCmd.Flags().IntVar(&seedCandidates, "candidates", seed.DefaultCounts.Candidates, "number of candidates to create")
	seedCmd.Flags().IntVar(&seedAssessments, "assessments", seed.DefaultCounts.Assessments, "number of jobs that get an assessment")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed for deterministic data")
}

func runSeed(cmd *cobra.Command, args []string) error {
	s := seed.New(dbClient, logger,
		seed.WithCounts(seed.Counts{
			Jobs:        seedJobs,
			Candidates:  seedCandidates,
			Assessments: seedAssessments,
		}),
		seed.WithSeed(seedValue),
	)

	done, err := s.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	if done.Jobs == 0 {
		fmt.Println("Store already seeded, nothing to do.")
		return nil
	}
	fmt.Printf("Seeded %d jobs, %d candidates, %d assessments.\n", done.Jobs, done.Candidates, done.Assessments)
	return nil
}
