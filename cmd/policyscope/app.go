package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"policyscope/internal/aggregator"
	"policyscope/internal/api"
	"policyscope/internal/cache"
	"policyscope/internal/config"
	"policyscope/internal/graph"
	"policyscope/internal/logger"
	"policyscope/internal/models"
	"policyscope/internal/notify"
)

// app bundles the components built from a config.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	agg      *aggregator.Aggregator
	cache    *cache.Cache
	notifier *notify.Notifier
}

func newApp(strict bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg)

	if cfg.Graph.Token() == "" {
		log.Warn("graph token is not set; requests will fail", "env", cfg.Graph.TokenEnv)
	}

	client := graph.NewClient(graph.Options{
		BaseURL:      cfg.Graph.BaseURL,
		Tokens:       graph.EnvToken(cfg.Graph.TokenEnv),
		Timeout:      cfg.Graph.GetTimeout(),
		BufferSizeKb: cfg.Graph.BufferSizeKb,
		Logger:       log,
	})

	agg := aggregator.New(client, aggregator.SourcesFromConfig(cfg), aggregator.Options{
		Logger:         log,
		MaxConcurrency: cfg.Graph.MaxConcurrency,
		Strict:         strict,
	})

	c, err := cache.FromConfig(cfg.Cache, log)
	if err != nil {
		return nil, err
	}

	n, err := notify.Connect(cfg.Notify)
	if err != nil {
		log.Warn("sync events disabled", "error", err)
	}

	return &app{cfg: cfg, log: log, agg: agg, cache: c, notifier: n}, nil
}

func (a *app) server() *api.Server {
	return api.NewServer(a.agg, a.cache, a.notifier, a.log)
}

func (a *app) Close() {
	if err := a.notifier.Close(); err != nil {
		a.log.Warn("failed to close nats connection", "error", err)
	}
}

// PolicyFile is the on-disk form written by fetch and read by stats and
// report.
type PolicyFile struct {
	FetchedAt     time.Time       `json:"fetchedAt"`
	Policies      []models.Policy `json:"policies"`
	FailedSources []string        `json:"failedSources,omitempty"`
}

var errEmptyInput = errors.New("input contains no policies")

// readPolicies accepts a PolicyFile or a bare array of policies.
func readPolicies(path string) (*PolicyFile, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	var file PolicyFile
	if err := json.Unmarshal(data, &file); err == nil && file.Policies != nil {
		return &file, nil
	}

	var policies []models.Policy
	if err := json.Unmarshal(data, &policies); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if policies == nil {
		return nil, errEmptyInput
	}

	return &PolicyFile{Policies: policies}, nil
}

// readInput reads path, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	return data, nil
}

// writeOutput writes data to path, or stdout for "" and "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func writeJSONOutput(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	return writeOutput(path, append(data, '\n'))
}

// loadSnapshot reads policies from a file, or through the cache and Graph
// when input is empty.
func loadSnapshot(ctx context.Context, input string) (*PolicyFile, error) {
	if input != "" {
		return readPolicies(input)
	}

	a, err := newApp(false)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	snap, err := a.server().Load(ctx, false)
	if err != nil {
		return nil, err
	}

	return &PolicyFile{
		FetchedAt:     snap.FetchedAt,
		Policies:      snap.Policies,
		FailedSources: snap.FailedSources,
	}, nil
}
