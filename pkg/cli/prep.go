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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/langpop/langpop/pkg/defaults"
	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/metric"
	"github.com/langpop/langpop/pkg/prep"
	"github.com/langpop/langpop/pkg/table"
)

func prepCmd() *cli.Command {
	return &cli.Command{
		Name:                  "prep",
		EnableShellCompletion: true,
		Usage:                 "Build the popularity dataset from metric exports",
		Description: `Load every metric export, merge them on name and date, zero-fill
missing metrics and compute per-quarter sums.

Without --config the stock sources under ./scripts/data are used:
  issues=gh-issue-event.json
  pulls=gh-pull-request.json
  stars=gh-star-event.json
  soQuestions=so-tags.json

Sources may be local files, HTTP/HTTPS URLs or ConfigMap URIs (cm://namespace/name).`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path/URI to a YAML or JSON prep configuration",
				Sources: cli.EnvVars("LANGPOP_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Base directory for relative source paths",
			},
			&cli.StringSliceFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Metric source as key=path, repeatable; replaces configured sources",
			},
			&cli.StringSliceFlag{
				Name:  "merge-key",
				Usage: "Merge key field, repeatable (default: name, date)",
			},
			&cli.StringFlag{
				Name:  "group-by",
				Usage: "Field the sums table is grouped on (default: date)",
			},
			&cli.StringSliceFlag{
				Name:  "alias",
				Usage: `Extra canonical name mapping as "from=to", repeatable`,
			},
			&cli.StringFlag{
				Name: "empty-policy",
				Usage: fmt.Sprintf("Handling of empty merge inputs (supported values: %s)",
					table.SupportedEmptyPolicies()),
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "BCP 47 locale used to order string keys (default: en)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum number of sources loaded at once",
			},
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		}, publishFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := prepConfigFromCmd(cmd)
			if err != nil {
				return err
			}

			slog.Info("preparing dataset",
				"sources", cfg.SourceKeys(),
				"mergeKeys", cfg.MergeKeys,
				"groupBy", cfg.GroupBy)

			runCtx, cancel := context.WithTimeout(ctx, defaults.PrepTimeout)
			defer cancel()

			ds, err := prep.Run(runCtx, cfg, prep.WithVersion(version))
			if err != nil {
				return fmt.Errorf("failed to prepare dataset: %w", err)
			}

			if err := writeOutput(ctx, cmd, ds, "dataset"); err != nil {
				return err
			}

			slog.Info("dataset prepared",
				"runId", ds.RunID(),
				"items", ds.Items.Len(),
				"groups", ds.Sums.Len())
			return nil
		},
	}
}

// prepConfigFromCmd loads the base configuration and applies flag overrides.
func prepConfigFromCmd(cmd *cli.Command) (*prep.Config, error) {
	cfg := prep.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		c, err := prep.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
		}
		cfg = c
	}

	if cmd.IsSet("dir") {
		cfg.Dir = cmd.String("dir")
	}
	if specs := cmd.StringSlice("source"); len(specs) > 0 {
		cfg.Sources = make([]metric.Source, 0, len(specs))
		for _, s := range specs {
			src, err := metric.ParseSource(s)
			if err != nil {
				return nil, err
			}
			cfg.Sources = append(cfg.Sources, src)
		}
	}
	if keys := cmd.StringSlice("merge-key"); len(keys) > 0 {
		cfg.MergeKeys = keys
	}
	if v := cmd.String("group-by"); v != "" {
		cfg.GroupBy = v
	}
	if specs := cmd.StringSlice("alias"); len(specs) > 0 {
		extra, err := parseAliases(specs)
		if err != nil {
			return nil, err
		}
		cfg.Aliases = cfg.Aliases.Merge(extra)
	}
	if v := cmd.String("empty-policy"); v != "" {
		cfg.EmptyPolicy = v
	}
	if v := cmd.String("locale"); v != "" {
		cfg.Locale = v
	}
	if n := cmd.Int("concurrency"); n > 0 {
		cfg.Concurrency = n
	}
	if v := cmd.String("kubeconfig"); v != "" {
		cfg.Kubeconfig = v
	}

	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

func parseAliases(specs []string) (metric.Aliases, error) {
	out := make(metric.Aliases, len(specs))
	for _, s := range specs {
		from, to, ok := strings.Cut(s, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"alias must be from=to", map[string]any{"alias": s})
		}
		out[from] = to
	}
	return out, nil
}
