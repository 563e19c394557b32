// Copyright (c) 2026, The langpop Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/k8s/client"
	"github.com/langpop/langpop/pkg/logging"
	"github.com/langpop/langpop/pkg/prep"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/server"
)

const (
	name           = "langpopd"
	versionDefault = "dev"

	// EnvDataset names the dataset location served by Serve.
	EnvDataset = "LANGPOP_DATASET"

	// EnvRefresh names an optional cron schedule for reloading the dataset.
	EnvRefresh = "LANGPOP_REFRESH"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/langpop/langpop/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options configures Run.
type Options struct {
	// Dataset is a file path, URL or cm://namespace/name location.
	Dataset string
	// Port overrides the configured port when positive.
	Port int
	// Kubeconfig is used for cm:// locations. Empty uses the default chain.
	Kubeconfig string
	// Version is reported by the root route. Empty uses the build version.
	Version string
	// Watch reloads a local dataset file when it changes.
	Watch bool
	// Refresh is a cron schedule for reloading the dataset. Empty disables it.
	Refresh string
}

// Serve starts the API server from the environment and blocks until
// shutdown. The dataset location comes from LANGPOP_DATASET and the port
// from PORT.
func Serve() error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	opts := Options{
		Dataset: os.Getenv(EnvDataset),
		Refresh: os.Getenv(EnvRefresh),
	}
	if err := Run(context.Background(), opts); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// Run loads the dataset, then serves it until ctx is canceled or the
// process is signaled. Reloading runs alongside when Watch or Refresh is set.
func Run(ctx context.Context, opts Options) error {
	s, reloader, err := newServer(ctx, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if opts.Watch {
		g.Go(func() error { return reloader.Watch(gctx) })
	}
	if opts.Refresh != "" {
		g.Go(func() error { return reloader.Schedule(gctx, opts.Refresh) })
	}
	g.Go(func() error {
		defer cancel()
		return s.Run(gctx)
	})
	return g.Wait()
}

// NewServer loads the dataset and returns a server with the dataset routes
// registered.
func NewServer(ctx context.Context, opts Options) (*server.Server, error) {
	s, _, err := newServer(ctx, opts)
	return s, err
}

func newServer(ctx context.Context, opts Options) (*server.Server, *Reloader, error) {
	if opts.Dataset == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidRequest,
			"dataset location is required (set "+EnvDataset+" or --dataset)")
	}
	if opts.Watch && !isLocal(opts.Dataset) {
		return nil, nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"only local dataset files can be watched", map[string]any{"location": opts.Dataset})
	}
	if opts.Refresh != "" {
		if _, err := cron.ParseStandard(opts.Refresh); err != nil {
			return nil, nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				"invalid refresh schedule", err, map[string]any{"schedule": opts.Refresh})
		}
	}
	v := opts.Version
	if v == "" {
		v = version
	}

	fetcher := serializer.NewFetcher(
		serializer.WithKubeClient(client.KubeconfigProvider(opts.Kubeconfig)),
	)
	ds, err := prep.LoadDataset(ctx, fetcher, opts.Dataset)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("dataset loaded",
		"location", opts.Dataset,
		"runId", ds.RunID(),
		"items", ds.Items.Len(),
		"groups", ds.Sums.Len(),
	)

	cfg := server.NewConfig()
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}

	h := prep.NewHandler(ds)
	s := server.New(
		server.WithConfig(cfg),
		server.WithName(name),
		server.WithVersion(v),
		server.WithHandler(h.Routes()),
	)
	return s, NewReloader(opts.Dataset, fetcher, h), nil
}
