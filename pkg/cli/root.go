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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/langpop/langpop/pkg/logging"
	"github.com/langpop/langpop/pkg/serializer"
)

const (
	name           = "langpop"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage: `Output destination (default: stdout).
	Supports: file paths, ConfigMap URIs (cm://namespace/name)
	or OCI references (oci://registry/repository[:tag]).`,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", serializer.SupportedFormats()),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig used for cm:// locations (default: in-cluster or ~/.kube/config)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}
}

func publishFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "Use HTTP instead of HTTPS when publishing to an OCI registry",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "Skip TLS certificate verification when publishing to an OCI registry",
		},
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Programming language popularity dataset tooling",
		Description: `Builds the language popularity dataset from per-metric exports
(GitHub issues, pull requests, stars and Stack Overflow questions),
merges row collections, and serves prepared datasets over HTTP.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LANGPOP_LOG_LEVEL", "LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Shorthand for --log-level debug",
				Sources: cli.EnvVars("LANGPOP_DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cmd.String("log-level")
			if cmd.Bool("debug") {
				level = "debug"
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			prepCmd(),
			mergeCmd(),
			serveCmd(),
		},
	}
}

// Execute runs the CLI with os.Args and exits non-zero on error.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
