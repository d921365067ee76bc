package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/talentrank/internal/simload"
)

// Default configuration constants.
const (
	defaultNumApplicants = 1000
	defaultNumJobs       = 20
	defaultTopN          = 50
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		applicants = flag.Int("applicants", defaultNumApplicants, "Number of applicants to generate")
		jobs       = flag.Int("jobs", defaultNumJobs, "Number of jobs to generate")
		topN       = flag.Int("top", defaultTopN, "Number of ranking entries to fetch per job")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for run output (default: simload_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simload.ShowHelp()
		return
	}

	if err := simload.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simload.Config{
		BaseURL:       *baseURL,
		NumApplicants: *applicants,
		NumJobs:       *jobs,
		TopN:          *topN,
		Workers:       *workers,
		Timeout:       *timeout,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	if err := simload.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		return
	}
}
