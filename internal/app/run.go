// Package app drives the suggestion pipeline: validate the repository,
// extract diffs, generate a message, render it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitmsg/gitmsg/internal/config"
	"github.com/gitmsg/gitmsg/internal/gitx"
	"github.com/gitmsg/gitmsg/internal/llm"
	"github.com/gitmsg/gitmsg/internal/prompt"
)

// Options carries the fully resolved configuration for one run.
type Options struct {
	RepoPath string

	BaseURL       string
	APIKey        string
	Model         string
	Temperature   float64
	MaxTokens     int
	RecentCommits int

	Interactive bool

	// Out and Err default to stdout and stderr.
	Out io.Writer
	Err io.Writer
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// Run executes the pipeline. Handled failures print a message and return
// nil so the process exits zero; only argument parsing can fail harder.
func Run(ctx context.Context, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	repo, err := gitx.Open(opts.RepoPath)
	if err != nil {
		fmt.Fprintln(opts.Out, "Error: The specified path is not a valid git repository.")
		return nil
	}

	changes, err := repo.Changes(ctx, opts.Err)
	if err != nil {
		fmt.Fprintf(opts.Err, "Error: could not read working-tree changes: %v\n", err)
		return nil
	}
	bundle := gitx.Bundle(changes)
	if bundle == "" {
		fmt.Fprintln(opts.Out, "No changes detected in the repository.")
		return nil
	}

	recent, err := repo.RecentCommits(opts.RecentCommits)
	if err != nil {
		fmt.Fprintf(opts.Err, "Warning: Could not read recent commits: %v\n", err)
		recent = nil
	}
	userPrompt := prompt.Build(bundle, recent)

	client := llm.New(llm.Config{
		BaseURL:     opts.BaseURL,
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		MaxRetries:  config.MaxRetries,
		BaseDelay:   config.BaseDelay,
		Timeout:     config.RequestTimeout,
		Log:         opts.Err,
	})

	generate := func() (string, error) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(opts.Err))
		s.Suffix = " Generating commit message..."
		s.Start()
		defer s.Stop()
		return client.Generate(ctx, prompt.System, userPrompt)
	}

	msg, err := generate()
	if err != nil {
		if errors.Is(err, llm.ErrExhausted) || errors.Is(err, llm.ErrMalformedResponse) {
			fmt.Fprintln(opts.Out, "No commit message generated.")
			return nil
		}
		fmt.Fprintf(opts.Out, "An error occurred while generating the commit message: %v\n", err)
		fmt.Fprintln(opts.Out, "Please try again later or write the commit message manually.")
		return nil
	}

	renderMessage(opts.Out, msg)

	if opts.Interactive {
		return runInteractive(repo, msg, generate, opts.Out)
	}
	return nil
}

const separatorWidth = 50

// renderMessage frames the suggestion between two separator lines.
func renderMessage(w io.Writer, msg string) {
	sep := strings.Repeat("=", separatorWidth)
	fmt.Fprintln(w, headerStyle.Render("Suggested commit message:"))
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, msg)
	fmt.Fprintln(w, sep)
}
