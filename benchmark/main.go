// Package main measures storecast form latency with and without the response cache.
// Every form is run several times per backend. The first successful cached run is
// treated as cold, the rest are averaged as warm, and the results are written to CSV.
//
// Prerequisites:
// - storecast binary installed and available in PATH
// - The forecast and recommendation endpoints reachable at the given URLs
//
// Usage: go run benchmark/main.go [forecast-url] [recommend-url]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Form        string
	Selection   string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkCase is one form submission to time.
type BenchmarkCase struct {
	Form      string   // forecast or recommend
	Selection string   // human readable label
	Args      []string // flags selecting the form input
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ForecastURL  string
	RecommendURL string
	Timeout      time.Duration
	NoCacheRuns  int
	CacheRuns    int
	Cases        []BenchmarkCase
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 3 {
		fmt.Printf("Usage: %s [forecast-url] [recommend-url]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		ForecastURL:  os.Args[1],
		RecommendURL: os.Args[2],
		Timeout:      time.Minute,
		NoCacheRuns:  3,
		CacheRuns:    4,
		Cases: []BenchmarkCase{
			{Form: "forecast", Selection: "dept 1 / store 1", Args: []string{"--department", "1", "--store", "1"}},
			{Form: "forecast", Selection: "dept 2 / store 3", Args: []string{"--department", "2", "--store", "3"}},
			{Form: "forecast", Selection: "dept 3 / store 2", Args: []string{"--department", "3", "--store", "2"}},
			{Form: "recommend", Selection: "customer 1", Args: []string{"--customer", "1"}},
			{Form: "recommend", Selection: "customer 7", Args: []string{"--customer", "7"}},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using storecast cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("storecast", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the storecast binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("storecast"); err != nil {
		return fmt.Errorf("storecast binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes every configured case
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d cases, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Cases), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, bc := range config.Cases {
		results = append(results, runBenchmarkSuite(config, bc))
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a case
func runBenchmarkSuite(config BenchmarkConfig, bc BenchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s for %s\n", bc.Form, bc.Selection)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, bc, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "FAILED"
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

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "FAILED"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Form:        bc.Form,
		Selection:   bc.Selection,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a storecast command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, bc BenchmarkCase, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{bc.Form, "--cache-backend", cacheBackend,
		"--forecast-url", config.ForecastURL, "--recommend-url", config.RecommendURL,
		"--timeout", config.Timeout.String(), "--log-level", "error"}
	args = append(args, bc.Args...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("storecast", args...)
		output, err := cmd.CombinedOutput()
		if err == nil && isSuccess(output, bc.Form) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, form string) bool {
	completionPhrase := "Forecast completed in"
	if form == "recommend" {
		completionPhrase = "Recommendations completed in"
	}
	return strings.Contains(string(output), completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/storecast_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"form", "selection", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Form, result.Selection, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printFormSummary(results, "forecast", "Forecast:")
	printFormSummary(results, "recommend", "Recommendations:")
}

// printFormSummary displays results for one form
func printFormSummary(results []BenchmarkResult, form, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Form == form {
			fmt.Printf("  %-18s: No-cache: %s, Cold: %s, Warm: %s\n", result.Selection, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
