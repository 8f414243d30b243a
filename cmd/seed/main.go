package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
)

const beeFilter = "bee"

// Uploader is the part of the API client the seeder needs
type Uploader interface {
	UploadName(ctx context.Context, name string) (string, error)
}

// Report summarizes a seeding run
type Report struct {
	Read     int
	Uploaded int
	Skipped  int
	Failed   []string
}

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", "names", "directory of name files, one name per line")
	apiURL := flag.String("api-url", envOr("API_URL", "http://localhost:8080"), "bee name API base URL")
	apiKey := flag.String("api-key", os.Getenv("API_KEY"), "API key with upload rights")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	names, err := readNames(*dir)
	if err != nil {
		slog.Error("Failed to read names", "dir", *dir, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report := seed(ctx, apiclient.New(*apiURL, *apiKey), names)
	fmt.Printf("read %d bee names: %d uploaded, %d already present, %d failed\n",
		report.Read, report.Uploaded, report.Skipped, len(report.Failed))
	for _, name := range report.Failed {
		fmt.Printf("  failed: %s\n", name)
	}
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}

// readNames reads every regular file in dir and returns the distinct
// lowercased names containing "bee", sorted
func readNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("Skipping unreadable file", "file", entry.Name(), "error", err)
			continue
		}
		err = collectNames(f, seen)
		f.Close()
		if err != nil {
			slog.Warn("Skipping unreadable file", "file", entry.Name(), "error", err)
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func collectNames(r io.Reader, into map[string]struct{}) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if name != "" && strings.Contains(name, beeFilter) {
			into[name] = struct{}{}
		}
	}
	return scanner.Err()
}

// seed uploads names one at a time. Existing names count as skipped.
func seed(ctx context.Context, api Uploader, names []string) Report {
	report := Report{Read: len(names)}
	for _, name := range names {
		_, err := api.UploadName(ctx, name)

		var apiErr *apiclient.APIError
		switch {
		case err == nil:
			report.Uploaded++
		case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict:
			report.Skipped++
		default:
			slog.Error("Failed to upload name", "name", name, "error", err)
			report.Failed = append(report.Failed, name)
		}
	}
	return report
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
