// Package cli defines the Cobra command definitions for the memoflow CLI.
// This file contains the root command and shared wiring.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/config"
	"github.com/memoflow-dev/memoflow/internal/interview"
	"github.com/memoflow-dev/memoflow/internal/log"
	"github.com/memoflow-dev/memoflow/internal/memo"
	"github.com/memoflow-dev/memoflow/internal/ollama"
	"github.com/memoflow-dev/memoflow/internal/similarity"
)

var (
	memosDir string
	version  = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "memoflow",
	Short: "Turn voice memo transcripts into structured notes and writing",
	Long: `Memoflow processes transcribed voice memos with a local language model,
extracting projects, tasks, personal observations, and writing material.
It can then interview you about a memo's writing ideas, pulling in
related memos for context and saving the conversation for later.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&memosDir, "dir", ".", "Voice memos root directory")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(ideasCmd)
	rootCmd.AddCommand(developCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
}

// env bundles the shared dependencies every command needs.
type env struct {
	cfg    *config.Config
	store  *memo.Store
	logger *log.Logger
}

// newEnv wires config, store, and logger for the configured memos root.
// A missing config file falls back to defaults so the tool works on an
// uninitialized directory; a malformed one is an error worth surfacing.
func newEnv() (*env, error) {
	cfg, err := config.ReadConfig(memosDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}

	logger, err := log.NewLogger(memosDir)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		store:  memo.NewStore(memosDir),
		logger: logger,
	}, nil
}

// extractClient is the low-temperature client for structured extraction.
func (e *env) extractClient() *ollama.Client {
	return ollama.NewClient(e.cfg.Ollama.BaseURL, e.cfg.Ollama.Model,
		ollama.WithTemperature(e.cfg.Ollama.ExtractTemperature),
		ollama.WithTopP(e.cfg.Ollama.TopP),
		ollama.WithTimeout(e.cfg.ExtractRequestTimeout()),
	)
}

// writingClient is the higher-temperature client for interview and
// writing generation.
func (e *env) writingClient() *ollama.Client {
	return ollama.NewClient(e.cfg.Ollama.BaseURL, e.cfg.Ollama.Model,
		ollama.WithTemperature(e.cfg.Ollama.WritingTemperature),
		ollama.WithTopP(e.cfg.Ollama.TopP),
		ollama.WithTimeout(e.cfg.WritingRequestTimeout()),
	)
}

func (e *env) finder() *similarity.Finder {
	return similarity.NewFinder(e.store, e.cfg.Interview.RelatedLimit, e.cfg.Interview.MinSimilarity)
}

// printWarns reports non-fatal problems on stderr.
func printWarns(warns []error) {
	for _, w := range warns {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
}

// reportContext surfaces what building an interview context degraded on:
// analysis substitutions and similarity-scan skips go to stderr and the
// event log, plus one scan summary event.
func (e *env) reportContext(memoID string, ictx *interview.Context, warns []error) {
	printWarns(warns)
	for _, w := range warns {
		_ = e.logger.Append(log.LogEvent{
			Event:  log.EventAnalysisMissing,
			MemoID: memoID,
			Error:  w.Error(),
		})
	}
	for _, s := range ictx.Skipped {
		fmt.Fprintf(os.Stderr, "warning: similarity scan skipped %s: %v\n", s.MemoID, s.Err)
		_ = e.logger.Append(log.LogEvent{
			Event:  log.EventMemoSkipped,
			MemoID: s.MemoID,
			Error:  s.Err.Error(),
		})
	}
	_ = e.logger.Append(log.LogEvent{
		Event:      log.EventSimilarityScan,
		MemoID:     memoID,
		Candidates: len(ictx.Related),
		Skipped:    len(ictx.Skipped),
	})
}
