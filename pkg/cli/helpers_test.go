package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/serializer"
)

// runWith runs fn inside a throwaway command defined by flags and args.
func runWith(t *testing.T, flags []cli.Flag, args []string, fn func(context.Context, *cli.Command) error) error {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: fn,
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:       "upper case",
			format:     "YAML",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "empty format defaults to json",
			format:     "",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "invalid format csv",
			format:  "csv",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := []cli.Flag{&cli.StringFlag{Name: "format", Value: tt.format}}
			err := runWith(t, flags, nil, func(_ context.Context, c *cli.Command) error {
				got, err := parseOutputFormat(c)
				if tt.wantErr {
					assert.Error(t, err)
					return nil
				}
				assert.NoError(t, err)
				assert.Equal(t, tt.wantFormat, got)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestWriteOutput(t *testing.T) {
	doc := map[string]any{"name": "Go", "count": 5}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"json", "json", `"name": "Go"`},
		{"yaml", "yaml", "name: Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "nested", "out."+tt.format)
			flags := []cli.Flag{outputFlag(), formatFlag(), kubeconfigFlag()}
			err := runWith(t, flags, []string{"--output", out, "--format", tt.format},
				func(ctx context.Context, c *cli.Command) error {
					return writeOutput(ctx, c, doc, "doc")
				})
			require.NoError(t, err)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestWriteOutputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "xml"}},
		{"invalid oci reference", []string{"--output", "oci://"}},
		{"oci reference without repository", []string{"--output", "oci://UPPER CASE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := append([]cli.Flag{outputFlag(), formatFlag(), kubeconfigFlag()}, publishFlags()...)
			err := runWith(t, flags, tt.args, func(ctx context.Context, c *cli.Command) error {
				return writeOutput(ctx, c, map[string]string{"a": "b"}, "doc")
			})
			assert.Error(t, err)
		})
	}
}

func TestParseAliases(t *testing.T) {
	got, err := parseAliases([]string{"Perl 6=Raku", " Golang = Go "})
	require.NoError(t, err)
	assert.Equal(t, "Raku", got["Perl 6"])
	assert.Equal(t, "Go", got["Golang"])

	for _, bad := range []string{"nope", "=Go", "Go="} {
		_, err := parseAliases([]string{bad})
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest), bad)
	}
}
