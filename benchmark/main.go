// Package main provides a performance benchmarking tool for the salespulse CLI.
// It seeds SQLite sales databases of increasing size and measures execution times
// for every analysis command, running each test multiple times, treating the first
// successful cached run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - salespulse binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory that will hold the seeded databases (defaults to a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// Dataset is one seeded sales database.
type Dataset struct {
	Name           string
	Months         int
	OrdersPerMonth int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    []Dataset
	Commands    map[string][]string // Command name to extra args
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "salespulse-bench-")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets: []Dataset{
			{Name: "small", Months: 12, OrdersPerMonth: 10},
			{Name: "medium", Months: 24, OrdersPerMonth: 40},
			{Name: "large", Months: 60, OrdersPerMonth: 200},
		},
		Commands: map[string][]string{
			"compare": {"-b", "NYC01,SEA01"},
			"trend":   nil,
			"pareto":  {"--dimension", "product"},
			"growth":  nil,
			"summary": nil,
			"report":  {"-b", "NYC01,CHI01"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range config.Datasets {
		fmt.Printf("Seeding %s dataset...\n", ds.Name)
		if err := seedDataset(config, ds); err != nil {
			fmt.Printf("Failed to seed %s: %v\n", ds.Name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the salespulse binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("salespulse"); err != nil {
		return fmt.Errorf("salespulse binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// datasetEnv points the CLI at the dataset's sales database and cache.
func datasetEnv(config BenchmarkConfig, ds Dataset, cacheBackend string) []string {
	return append(os.Environ(),
		"SALESPULSE_SALES_BACKEND=sqlite",
		"SALESPULSE_SALES_DB_CONNECT="+filepath.Join(config.WorkDir, ds.Name+"_sales.db"),
		"SALESPULSE_CACHE_BACKEND="+cacheBackend,
		"SALESPULSE_CACHE_DB_CONNECT="+filepath.Join(config.WorkDir, ds.Name+"_cache.db"),
	)
}

// seedDataset creates a fresh database for ds.
func seedDataset(config BenchmarkConfig, ds Dataset) error {
	_ = os.Remove(filepath.Join(config.WorkDir, ds.Name+"_sales.db"))
	cmd := exec.Command("salespulse", "db", "seed",
		"--months", strconv.Itoa(ds.Months),
		"--orders-per-month", strconv.Itoa(ds.OrdersPerMonth))
	cmd.Env = datasetEnv(config, ds, "none")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured datasets.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, ds := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", ds.Name)
		for _, command := range commandOrder {
			results = append(results, runBenchmarkSuite(config, ds, command))
		}
	}

	return results
}

// commandOrder keeps the output stable.
var commandOrder = []string{"compare", "trend", "pareto", "growth", "summary", "report"}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, ds Dataset, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, ds.Name)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, ds, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs, starting from an empty cache
	clearCache(config, ds)
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     ds.Name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// clearCache empties the dataset's result cache.
func clearCache(config BenchmarkConfig, ds Dataset) {
	cmd := exec.Command("salespulse", "cache", "clear")
	cmd.Env = datasetEnv(config, ds, "sqlite")
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmark executes a salespulse command multiple times with the given cache backend
// and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, ds Dataset, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command}, config.Commands[command]...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "salespulse", args...)
		cmd.Env = datasetEnv(config, ds, cacheBackend)

		start := time.Now()
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start)
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed.Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Analysis completed in")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("salespulse_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commandOrder {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Databases kept in %s\n", config.WorkDir)
}
