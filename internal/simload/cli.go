package simload

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/talentrank/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simload_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`TalentRank Load Tool
====================

A concurrent tool for exercising the scoring engine end to end: it creates
synthetic applicants and jobs, files applications, computes scores, submits
hiring decisions, and verifies rankings and fairness audits.

Usage:
  go run cmd/simload/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -applicants int
        Number of applicants to generate (default 1000)
  -jobs int
        Number of jobs to generate (default 20)
  -top int
        Number of ranking entries to fetch per job (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: simload_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/simload/main.go

  # Run with custom parameters
  go run cmd/simload/main.go -applicants 5000 -jobs 50 -workers 16

  # Run with verbose output against a remote instance
  go run cmd/simload/main.go -verbose -url http://staging:9080
`)
}
