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

	"github.com/urfave/cli/v3"

	"github.com/langpop/langpop/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve a prepared dataset over HTTP",
		Description: `Load a dataset produced by "langpop prep" and serve it:
  GET /v1/dataset  full dataset
  GET /v1/items    merged items, filtered by ?name= (repeatable)
  GET /v1/sums     per-group sums

Health (/health, /ready) and Prometheus (/metrics) endpoints are included.
With --watch or --refresh the dataset is reloaded in place; a failed
reload keeps serving the previous dataset.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dataset",
				Aliases:  []string{"d"},
				Usage:    "Path/URI of the dataset (file, HTTP/HTTPS URL or cm://namespace/name)",
				Sources:  cli.EnvVars(api.EnvDataset),
				Required: true,
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: 8080)",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the dataset when the local file changes",
			},
			&cli.StringFlag{
				Name:    "refresh",
				Usage:   `Cron schedule for reloading the dataset (e.g., "@every 10m")`,
				Sources: cli.EnvVars(api.EnvRefresh),
			},
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.Run(ctx, api.Options{
				Dataset:    cmd.String("dataset"),
				Port:       cmd.Int("port"),
				Kubeconfig: cmd.String("kubeconfig"),
				Version:    version,
				Watch:      cmd.Bool("watch"),
				Refresh:    cmd.String("refresh"),
			})
		},
	}
}
