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

package prep

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/langpop/langpop/pkg/defaults"
	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/header"
	"github.com/langpop/langpop/pkg/k8s/client"
	"github.com/langpop/langpop/pkg/metric"
	"github.com/langpop/langpop/pkg/row"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/table"
)

// Option configures Run.
type Option func(*runner)

// WithFetcher replaces the Fetcher built from the config.
func WithFetcher(f *serializer.Fetcher) Option {
	return func(r *runner) {
		r.fetcher = f
	}
}

// WithLogger sets the logger for the run.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		r.logger = l
	}
}

// WithVersion records the tool version in the dataset header.
func WithVersion(v string) Option {
	return func(r *runner) {
		r.version = v
	}
}

type runner struct {
	cfg     Config
	fetcher *serializer.Fetcher
	logger  *slog.Logger
	version string
}

// Run loads every configured source, merges them on the merge keys,
// zero-fills missing metrics and computes per-group sums.
//
// Empty sources are skipped with a warning unless the empty policy is
// fail. Sources are loaded concurrently but always merged in declared
// order, so the result does not depend on load timing.
func Run(ctx context.Context, cfg *Config, opts ...Option) (*Dataset, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "config is nil")
	}

	r := &runner{cfg: *cfg}
	r.cfg.ApplyDefaults()
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.fetcher == nil {
		limiter := rate.NewLimiter(rate.Limit(r.cfg.FetchRate), r.cfg.FetchBurst)
		r.fetcher = serializer.NewFetcher(
			serializer.WithHTTPReader(serializer.NewHttpReader(serializer.WithRateLimiter(limiter))),
			serializer.WithKubeClient(client.KubeconfigProvider(r.cfg.Kubeconfig)),
		)
	}

	start := time.Now()
	ds, err := r.run(ctx)
	prepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		prepRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	prepRuns.WithLabelValues("success").Inc()

	r.logger.Info("dataset prepared",
		"runId", ds.RunID(),
		"items", ds.Items.Len(),
		"groups", ds.Sums.Len(),
		"duration", time.Since(start).String())
	return ds, nil
}

func (r *runner) run(ctx context.Context) (*Dataset, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	tableOpts, policy, err := r.cfg.tableOptions()
	if err != nil {
		return nil, err
	}
	tableOpts = append(tableOpts, table.WithLogger(r.logger))

	loaded, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Sources: r.cfg.SourceKeys()}
	ds.Init(header.KindDataset, r.version)

	var items row.Rows
	for i, rows := range loaded {
		src := r.cfg.Sources[i]
		if len(rows) == 0 {
			if policy == table.EmptyFail {
				return nil, errors.NewWithContext(errors.ErrCodeEmptyInput,
					"source has no records", map[string]any{"source": src.Key})
			}
			r.logger.Warn("skipping empty source", "source", src.Key)
			continue
		}
		if items == nil {
			items = rows
			continue
		}

		merged, stats, err := table.Merge(items, rows, r.cfg.MergeKeys, tableOpts...)
		if err != nil {
			code := errors.CodeOf(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.WrapWithContext(code,
				"failed to merge source", err, map[string]any{"source": src.Key})
		}
		items = merged
		ds.Stats = append(ds.Stats, MergeStep{Source: src.Key, MergeStats: *stats})
	}
	if items == nil {
		items = row.Rows{}
	}

	schema := r.schema(items)
	projected := make(row.Rows, len(items))
	for i, it := range items {
		projected[i] = it.Project(schema)
	}

	sums, err := table.SumGrouped(projected, r.cfg.GroupBy, r.cfg.SourceKeys(), tableOpts...)
	if err != nil {
		return nil, err
	}

	ds.Items = table.Encode(projected, schema...)
	ds.Sums = table.Encode(sums, append([]string{r.cfg.GroupBy}, r.cfg.SourceKeys()...)...)
	return ds, nil
}

// load fetches all sources concurrently. The result is indexed like
// cfg.Sources.
func (r *runner) load(ctx context.Context) ([]row.Rows, error) {
	aliases := metric.DefaultAliases().Merge(r.cfg.Aliases)
	out := make([]row.Rows, len(r.cfg.Sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, src := range r.cfg.Sources {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, defaults.SourceLoadTimeout)
			defer cancel()

			counts, err := metric.Load(lctx, r.fetcher, src, r.cfg.Dir)
			if err != nil {
				return err
			}
			sourceRecords.WithLabelValues(src.Key).Add(float64(len(counts)))
			out[i] = metric.ToRows(src.Key, counts, aliases)
			r.logger.Debug("source converted", "source", src.Key, "records", len(counts), "rows", len(out[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// schema is the merge keys followed by every other field and every
// source key, sorted.
func (r *runner) schema(items row.Rows) []string {
	base := table.Schema(items, r.cfg.MergeKeys)
	extras := base[len(r.cfg.MergeKeys):]
	for _, k := range r.cfg.SourceKeys() {
		if !slices.Contains(extras, k) {
			extras = append(extras, k)
		}
	}
	slices.Sort(extras)
	return append(slices.Clone(r.cfg.MergeKeys), extras...)
}
