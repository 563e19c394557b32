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
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/prep"
	"github.com/langpop/langpop/pkg/serializer"
)

// Reload triggers.
const (
	triggerWatch    = "watch"
	triggerSchedule = "schedule"
)

// Reloader refreshes the dataset served by a prep.Handler from its
// location. A failed reload keeps the previous dataset.
type Reloader struct {
	location string
	fetcher  *serializer.Fetcher
	handler  *prep.Handler
}

// NewReloader returns a Reloader for the dataset at location.
func NewReloader(location string, f *serializer.Fetcher, h *prep.Handler) *Reloader {
	return &Reloader{
		location: location,
		fetcher:  f,
		handler:  h,
	}
}

// Reload loads the dataset and swaps it into the handler.
func (r *Reloader) Reload(ctx context.Context) error {
	return r.reload(ctx, "manual")
}

func (r *Reloader) reload(ctx context.Context, trigger string) error {
	ds, err := prep.LoadDataset(ctx, r.fetcher, r.location)
	if err != nil {
		datasetReloads.WithLabelValues(trigger, "error").Inc()
		slog.Warn("dataset reload failed, keeping previous dataset",
			"location", r.location,
			"trigger", trigger,
			"error", err)
		return err
	}

	r.handler.SetDataset(ds)
	datasetReloads.WithLabelValues(trigger, "success").Inc()
	slog.Info("dataset reloaded",
		"location", r.location,
		"trigger", trigger,
		"runId", ds.RunID(),
		"items", ds.Items.Len())
	return nil
}

// Watch reloads the dataset whenever its file is written, created or
// renamed into place. It blocks until ctx is done. Only local files can be
// watched.
func (r *Reloader) Watch(ctx context.Context) error {
	if !isLocal(r.location) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"only local dataset files can be watched", map[string]any{"location": r.location})
	}

	path, err := filepath.Abs(r.location)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", r.location, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Replaced files surface as directory events.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	slog.Info("watching dataset", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				_ = r.reload(ctx, triggerWatch)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("dataset watcher error", "error", err)
		}
	}
}

func isLocal(location string) bool {
	return !serializer.IsRemote(location) && !strings.HasPrefix(location, serializer.ConfigMapURIScheme)
}

// Schedule reloads the dataset on a cron schedule such as "@every 10m" or
// "0 * * * *". It blocks until ctx is done.
func (r *Reloader) Schedule(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		_ = r.reload(ctx, triggerSchedule)
	}); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"invalid refresh schedule", err, map[string]any{"schedule": spec})
	}

	slog.Info("scheduled dataset refresh", "location", r.location, "schedule", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
