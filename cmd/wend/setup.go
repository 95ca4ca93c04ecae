package main

import (
	"context"
	"path/filepath"

	"github.com/wendlabs/wend/internal/config"
	"github.com/wendlabs/wend/internal/debug"
	"github.com/wendlabs/wend/internal/store"
	"github.com/wendlabs/wend/internal/telemetry"
	"github.com/wendlabs/wend/internal/tracker"
	"github.com/wendlabs/wend/internal/workflow"
)

// resolveStorePath decides where the workflow store lives.
// Priority: --store flag / store config key (merged in PersistentPreRun) >
// .wend directory found by walking up from the working directory.
func resolveStorePath() (string, error) {
	if storePath != "" {
		return storePath, nil
	}
	projectDir, err := config.FindProjectDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(projectDir, ".wend", store.DefaultFileName), nil
}

// openStore opens the workflow store, exiting with a hint when no store
// location can be resolved.
func openStore() *store.Store {
	path, err := resolveStorePath()
	if err != nil {
		if jsonOutput {
			outputJSONError(err, "store-not-found")
		}
		FatalErrorWithHint(err.Error(), "run wend inside a project with a .wend directory, or pass --store")
	}
	debug.Logf("workflow store: %s", path)
	return store.New(path)
}

// openTracker creates, configures, and instruments the active tracker.
// The caller owns Close.
func openTracker(ctx context.Context) tracker.RecordTracker {
	name := trackerName
	if name == "" {
		name = "jira"
	}

	t, err := tracker.New(name)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	creds, err := tracker.LoadCredentials()
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	cfg := tracker.NewConfig(name, creds[name])
	if err := t.Init(ctx, cfg); err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	return telemetry.WrapTracker(t)
}

// graphStats counts a graph's known states and recorded transitions. The
// state count includes destination-only states the walk never visited.
func graphStats(g *workflow.Graph) (states, transitions int) {
	states = len(g.AllStates())
	for _, ts := range g.States {
		transitions += len(ts)
	}
	return states, transitions
}
