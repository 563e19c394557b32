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
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/langpop/langpop/pkg/k8s/client"
	"github.com/langpop/langpop/pkg/oci"
	"github.com/langpop/langpop/pkg/serializer"
)

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

func kubeProvider(cmd *cli.Command) client.Provider {
	if path := cmd.String("kubeconfig"); path != "" {
		return client.KubeconfigProvider(path)
	}
	return client.DefaultProvider
}

func newFetcher(cmd *cli.Command) *serializer.Fetcher {
	return serializer.NewFetcher(serializer.WithKubeClient(kubeProvider(cmd)))
}

// writeOutput serializes doc to the --output destination in --format.
// OCI targets are staged in a temporary directory as <base>.<ext> and
// published as an artifact.
func writeOutput(ctx context.Context, cmd *cli.Command, doc any, base string) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	target := cmd.String("output")
	if oci.IsOCITarget(target) {
		return publishOutput(ctx, cmd, target, outFormat, doc, base)
	}

	ser, err := serializer.NewFileWriterOrStdout(outFormat, target,
		serializer.WithKubeProvider(kubeProvider(cmd)))
	if err != nil {
		return err
	}
	defer func() {
		if err := serializer.Close(ser); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	if err := ser.Serialize(ctx, doc); err != nil {
		return fmt.Errorf("failed to serialize %s: %w", base, err)
	}
	return nil
}

func publishOutput(ctx context.Context, cmd *cli.Command, target string, f serializer.Format, doc any, base string) error {
	ref, err := oci.ParseOutputTarget(target)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "langpop-oci-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, base+"."+f.Extension())
	ser, err := serializer.NewFileWriterOrStdout(f, path)
	if err != nil {
		return err
	}
	if err := ser.Serialize(ctx, doc); err != nil {
		_ = serializer.Close(ser)
		return fmt.Errorf("failed to serialize %s: %w", base, err)
	}
	if err := serializer.Close(ser); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	res, err := oci.Publish(ctx, oci.PublishConfig{
		SourceDir:   dir,
		Reference:   ref,
		Version:     version,
		PlainHTTP:   cmd.Bool("plain-http"),
		InsecureTLS: cmd.Bool("insecure-tls"),
	})
	if err != nil {
		return err
	}

	slog.Info("published",
		"reference", res.Reference,
		"digest", res.Digest)
	return nil
}
