// Package provision guarantees the local dataset file exists before any
// query runs, fetching it from the configured remote source on first use.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/schollz/progressbar/v3"
)

var (
	// ErrNoSource means no remote dataset location is configured and the
	// file is not present locally. Fatal: there is no degraded mode.
	ErrNoSource = errors.New("no dataset source configured (set DATABASE_URL)")

	// ErrEmptyDataset means the fetch completed but left a missing or
	// zero-byte file. Distinct from a transport error so operators can tell
	// a bad URL payload from a network problem.
	ErrEmptyDataset = errors.New("dataset file is empty or missing after download")
)

// Provisioner downloads the dataset file when absent. The zero Client means
// http.DefaultClient; tests swap in a client pointed at a local server.
type Provisioner struct {
	DBPath string
	URL    string
	Client *http.Client

	// Quiet suppresses the terminal progress bar (used by tests and when
	// stdout is not a TTY-facing CLI run).
	Quiet bool
}

// Ensure makes the dataset file at p.DBPath available and non-empty.
// If the file already exists with content it returns immediately without
// touching the network.
func (p *Provisioner) Ensure(ctx context.Context) error {
	if info, err := os.Stat(p.DBPath); err == nil && info.Size() > 0 {
		return nil
	}

	if p.URL == "" {
		return ErrNoSource
	}

	if err := p.download(ctx); err != nil {
		// Leave no partial file behind; a truncated database would pass the
		// size check on the next run.
		os.Remove(p.DBPath)
		return err
	}

	info, err := os.Stat(p.DBPath)
	if err != nil || info.Size() == 0 {
		os.Remove(p.DBPath)
		return ErrEmptyDataset
	}
	return nil
}

func (p *Provisioner) download(ctx context.Context) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return fmt.Errorf("building dataset request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching dataset: unexpected status %s", resp.Status)
	}

	f, err := os.Create(p.DBPath)
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	defer f.Close()

	var dst io.Writer = f
	if !p.Quiet {
		// ContentLength of -1 renders a spinner instead of a percentage.
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading dataset")
		dst = io.MultiWriter(f, bar)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("writing dataset file: %w", err)
	}
	return nil
}
