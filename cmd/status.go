package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/opt"
	"github.com/cwbudde/mountaincarga/internal/server"
)

var (
	serverURL string
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Query server status or specific job",
	Long: `Queries the server for job status information.
If no job-id is provided, lists all jobs.
If job-id is provided, shows detailed status for that job.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

// jobStatus mirrors the body of GET /api/v1/jobs/{id}/status
type jobStatus struct {
	ID                   string           `json:"id"`
	State                server.JobState  `json:"state"`
	Config               server.JobConfig `json:"config"`
	BestFitness          float64          `json:"bestFitness"`
	InitialFitness       float64          `json:"initialFitness"`
	Generation           int              `json:"generation"`
	LastReport           *opt.Report      `json:"lastReport"`
	Converged            bool             `json:"converged"`
	Elapsed              float64          `json:"elapsed"`
	GenerationsPerSecond float64          `json:"generationsPerSecond"`
	Error                string           `json:"error"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	base := strings.TrimRight(serverURL, "/")
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		return listJobs(out, base+"/api/v1/jobs")
	}
	jobID := args[0]
	return getJobStatus(out, fmt.Sprintf("%s/api/v1/jobs/%s/status", base, jobID), jobID)
}

func getJSON(url string, v any) (int, error) {
	resp, err := http.Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("server returned error: %s", strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func listJobs(out io.Writer, url string) error {
	var jobs []server.Job
	if _, err := getJSON(url, &jobs); err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(out, "No jobs found")
		return nil
	}

	fmt.Fprintf(out, "Found %d job(s):\n\n", len(jobs))
	for _, job := range jobs {
		fmt.Fprintf(out, "Job ID: %s\n", job.ID)
		fmt.Fprintf(out, "  State: %s\n", job.State)
		fmt.Fprintf(out, "  Population: %d  Genome: %d\n", job.Config.GA.PopulationSize, job.Config.GA.GenomeLength)
		if job.Generation > 0 {
			fmt.Fprintf(out, "  Generation: %d/%d\n", job.Generation, job.Config.GA.MaxGenerations)
			fmt.Fprintf(out, "  Fitness: %.4f -> %s\n", job.InitialFitness, describeFitness(job.BestFitness))
		}
		fmt.Fprintln(out)
	}

	return nil
}

func getJobStatus(out io.Writer, url, jobID string) error {
	var status jobStatus
	code, err := getJSON(url, &status)
	if code == http.StatusNotFound {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Job: %s\n", status.ID)
	fmt.Fprintf(out, "State: %s\n", status.State)
	fmt.Fprintln(out)

	ga := status.Config.GA
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  Population: %d\n", ga.PopulationSize)
	fmt.Fprintf(out, "  Genome length: %d\n", ga.GenomeLength)
	fmt.Fprintf(out, "  Max generations: %d\n", ga.MaxGenerations)
	fmt.Fprintf(out, "  Seed: %d  Env seed: %d\n", ga.Seed, status.Config.EnvSeed)
	if status.Config.ResumeFrom != "" {
		fmt.Fprintf(out, "  Resumed from: %s\n", status.Config.ResumeFrom)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Progress:")
	fmt.Fprintf(out, "  Generation: %d\n", status.Generation)
	if status.Generation > 0 {
		fmt.Fprintf(out, "  Initial Fitness: %.4f\n", status.InitialFitness)
		fmt.Fprintf(out, "  Best Fitness: %s\n", describeFitness(status.BestFitness))
	}
	if r := status.LastReport; r != nil {
		fmt.Fprintf(out, "  Mean Fitness: %.4f (std dev %.4f)\n", r.MeanFitness, r.StdDev)
	}
	if status.Converged {
		fmt.Fprintln(out, "  Converged early")
	}

	elapsed := time.Duration(status.Elapsed * float64(time.Second))
	fmt.Fprintf(out, "  Elapsed: %s\n", elapsed.Round(time.Millisecond))
	if status.GenerationsPerSecond > 0 {
		fmt.Fprintf(out, "  Throughput: %.1f generations/sec\n", status.GenerationsPerSecond)
	}

	if status.Error != "" {
		fmt.Fprintf(out, "\nError: %s\n", status.Error)
	}

	return nil
}
