package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
	"github.com/cwbudde/mountaincarga/internal/store"
)

var (
	solutionsDataDir string
	solutionsStore   string
	keepBest         int
	olderThanDays    int
	onlyUnsolved     bool
	forceClean       bool
)

var solutionsCmd = &cobra.Command{
	Use:   "solutions",
	Short: "Manage stored solutions",
	Long: `Manage stored solutions including listing and cleaning old runs.
Stored solutions can be replayed and resumed.`,
}

var listSolutionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored solutions",
	Long:  `Display all stored solutions with run ID, timestamp, generation, fitness and environment seed.`,
	Args:  cobra.NoArgs,
	RunE:  runListSolutions,
}

var cleanSolutionsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old solutions",
	Long: `Delete stored solutions based on retention policy.
You can keep only the N best solutions, delete solutions older than N days,
or delete every solution that never reached the flag.`,
	Args: cobra.NoArgs,
	RunE: runCleanSolutions,
}

func init() {
	rootCmd.AddCommand(solutionsCmd)

	solutionsCmd.AddCommand(listSolutionsCmd)
	solutionsCmd.AddCommand(cleanSolutionsCmd)

	defaults := config.Default()
	solutionsCmd.PersistentFlags().StringVar(&solutionsDataDir, "data-dir", defaults.Store.DataDir, "Base directory for stored solutions")
	solutionsCmd.PersistentFlags().StringVar(&solutionsStore, "store", defaults.Store.Backend, "Store backend (fs, sqlite)")

	cleanSolutionsCmd.Flags().IntVar(&keepBest, "keep-best", 0, "Keep only the N best solutions (0 = keep all)")
	cleanSolutionsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete solutions older than N days (0 = no age limit)")
	cleanSolutionsCmd.Flags().BoolVar(&onlyUnsolved, "unsolved", false, "Delete solutions that never reached the flag")
	cleanSolutionsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func openSolutionsStore(cmd *cobra.Command) (store.Persistence, error) {
	cfg := *loadedConfig()
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Store.DataDir = solutionsDataDir
	}
	if flags.Changed("store") {
		cfg.Store.Backend = solutionsStore
	}

	st, err := store.NewStore(cfg.Store.Backend, cfg.Store.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func runListSolutions(cmd *cobra.Command, args []string) error {
	st, err := openSolutionsStore(cmd)
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(st)

	infos, err := st.ListSolutions()
	if err != nil {
		return fmt.Errorf("failed to list solutions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No solutions found.")
		return nil
	}

	printSolutions(out, infos)
	fmt.Fprintf(out, "\nTotal solutions: %d\n", len(infos))
	return nil
}

func printSolutions(out io.Writer, infos []store.SolutionInfo) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tTIMESTAMP\tGENERATION\tFITNESS\tSOLVED\tENV SEED")
	fmt.Fprintln(w, "------\t---------\t----------\t-------\t------\t--------")

	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.6f\t%v\t%d\n",
			info.RunID,
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Generation,
			info.Fitness,
			info.Solved,
			info.EnvSeed,
		)
	}
	w.Flush()
}

func runCleanSolutions(cmd *cobra.Command, args []string) error {
	if keepBest == 0 && olderThanDays == 0 && !onlyUnsolved {
		return fmt.Errorf("must specify --keep-best, --older-than or --unsolved")
	}

	st, err := openSolutionsStore(cmd)
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(st)

	infos, err := st.ListSolutions()
	if err != nil {
		return fmt.Errorf("failed to list solutions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No solutions to clean.")
		return nil
	}

	toDelete := selectSolutionsForDeletion(infos, retentionPolicy{
		KeepBest:      keepBest,
		OlderThanDays: olderThanDays,
		Unsolved:      onlyUnsolved,
	}, time.Now())

	if len(toDelete) == 0 {
		fmt.Fprintln(out, "No solutions match deletion criteria.")
		return nil
	}

	fmt.Fprintf(out, "Found %d solution(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Fprintf(out, "  - %s (fitness %.4f, %s)\n",
			info.RunID,
			info.Fitness,
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean && !confirm(cmd.InOrStdin(), out, "\nProceed with deletion? [y/N]: ") {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := st.DeleteSolution(info.RunID); err != nil {
			slog.Error("Failed to delete solution", "run_id", info.RunID, "error", err)
			failed++
		} else {
			slog.Info("Deleted solution", "run_id", info.RunID)
			deleted++
		}
	}

	fmt.Fprintf(out, "\nDeleted %d solution(s), %d failed.\n", deleted, failed)
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// retentionPolicy selects solutions for deletion. A solution matching any
// enabled rule is deleted.
type retentionPolicy struct {
	// KeepBest keeps the N lowest-fitness solutions (0 = disabled)
	KeepBest int
	// OlderThanDays deletes solutions saved before now minus N days (0 = disabled)
	OlderThanDays int
	// Unsolved deletes solutions that never reached the flag
	Unsolved bool
}

// selectSolutionsForDeletion applies policy to infos. The result is in the
// order of infos and contains each solution at most once.
func selectSolutionsForDeletion(infos []store.SolutionInfo, policy retentionPolicy, now time.Time) []store.SolutionInfo {
	marked := make(map[string]bool)

	if policy.OlderThanDays > 0 {
		cutoff := now.AddDate(0, 0, -policy.OlderThanDays)
		for _, info := range infos {
			if info.Timestamp.Before(cutoff) {
				marked[info.RunID] = true
			}
		}
	}

	if policy.Unsolved {
		for _, info := range infos {
			if !info.Solved {
				marked[info.RunID] = true
			}
		}
	}

	if policy.KeepBest > 0 && len(infos) > policy.KeepBest {
		ranked := make([]store.SolutionInfo, len(infos))
		copy(ranked, infos)
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Fitness != ranked[j].Fitness {
				return ranked[i].Fitness < ranked[j].Fitness
			}
			return ranked[i].Timestamp.After(ranked[j].Timestamp)
		})
		for _, info := range ranked[policy.KeepBest:] {
			marked[info.RunID] = true
		}
	}

	var toDelete []store.SolutionInfo
	for _, info := range infos {
		if marked[info.RunID] {
			toDelete = append(toDelete, info)
		}
	}
	return toDelete
}
