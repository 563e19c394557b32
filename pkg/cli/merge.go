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

	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/prep"
	"github.com/langpop/langpop/pkg/table"
)

func mergeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "merge",
		EnableShellCompletion: true,
		Usage:                 "Merge two row collections on a key tuple",
		ArgsUsage:             "LEFT RIGHT",
		Description: `Full outer join of two row collections on the --on fields. Rows sharing
a key collapse into one with numeric fields summed; fields missing from
one side are zero-filled. The result is sorted by the key fields.

Inputs are JSON or YAML documents holding either an array of row objects
or a tabular object ({"keys": [...], "rows": [[...], ...]}), read from files,
HTTP/HTTPS URLs or ConfigMap URIs (cm://namespace/name).`,
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:     "on",
				Usage:    "Key field, repeatable; order defines the sort order",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "empty-policy",
				Value: table.EmptyDrop.String(),
				Usage: fmt.Sprintf("Handling of empty inputs (supported values: %s)",
					table.SupportedEmptyPolicies()),
			},
			&cli.StringFlag{
				Name:  "locale",
				Value: table.DefaultLocale.String(),
				Usage: "BCP 47 locale used to order string keys",
			},
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		}, publishFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return errors.NewWithContext(errors.ErrCodeInvalidRequest,
					"merge requires exactly two inputs", map[string]any{"got": cmd.NArg()})
			}

			opts, err := mergeOptionsFromCmd(cmd)
			if err != nil {
				return err
			}

			req := prep.MergeRequest{
				On:      cmd.StringSlice("on"),
				Left:    cmd.Args().Get(0),
				Right:   cmd.Args().Get(1),
				Version: version,
			}
			res, err := prep.MergeFiles(ctx, newFetcher(cmd), req, opts...)
			if err != nil {
				return fmt.Errorf("failed to merge %s and %s: %w", req.Left, req.Right, err)
			}

			if err := writeOutput(ctx, cmd, res, "merge"); err != nil {
				return err
			}

			slog.Info("merge completed",
				"rows", res.Stats.Rows,
				"collisions", res.Stats.Collisions,
				"processed", res.Stats.Processed)
			return nil
		},
	}
}

func mergeOptionsFromCmd(cmd *cli.Command) ([]table.Option, error) {
	policy, err := table.ParseEmptyPolicy(cmd.String("empty-policy"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid empty policy", err)
	}
	tag, err := language.Parse(cmd.String("locale"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid locale %q", cmd.String("locale")), err)
	}
	return []table.Option{table.WithEmptyPolicy(policy), table.WithLocale(tag)}, nil
}
