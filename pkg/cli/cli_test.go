package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/langpop/langpop/pkg/prep"
	"github.com/langpop/langpop/pkg/serializer"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, name, root.Name)

	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"prep", "merge", "serve"}, names)
}

func TestPrepConfigFromCmd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "langpop.yaml", `dir: /data
sources:
  - key: issues
    path: issues.json
  - key: stars
    path: stars.json
groupBy: name
`)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *prep.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *prep.Config) {
				def := prep.DefaultConfig()
				assert.Equal(t, def.Dir, cfg.Dir)
				assert.Equal(t, def.SourceKeys(), cfg.SourceKeys())
				assert.Equal(t, []string{"name", "date"}, cfg.MergeKeys)
				assert.Equal(t, "date", cfg.GroupBy)
			},
		},
		{
			name: "flag overrides",
			args: []string{
				"--dir", "/tmp/x",
				"--source", "a=a.json",
				"--source", "b=cm://ns/b",
				"--merge-key", "name",
				"--group-by", "name",
				"--alias", "Golang=Go",
				"--empty-policy", "keep",
				"--locale", "de",
				"--concurrency", "2",
				"--kubeconfig", "/tmp/kube",
			},
			check: func(t *testing.T, cfg *prep.Config) {
				assert.Equal(t, "/tmp/x", cfg.Dir)
				assert.Equal(t, []string{"a", "b"}, cfg.SourceKeys())
				assert.Equal(t, "cm://ns/b", cfg.Sources[1].Path)
				assert.Equal(t, []string{"name"}, cfg.MergeKeys)
				assert.Equal(t, "name", cfg.GroupBy)
				assert.Equal(t, "Go", cfg.Aliases["Golang"])
				assert.Equal(t, "keep", cfg.EmptyPolicy)
				assert.Equal(t, "de", cfg.Locale)
				assert.Equal(t, 2, cfg.Concurrency)
				assert.Equal(t, "/tmp/kube", cfg.Kubeconfig)
			},
		},
		{
			name: "config file",
			args: []string{"--config", cfgPath},
			check: func(t *testing.T, cfg *prep.Config) {
				assert.Equal(t, "/data", cfg.Dir)
				assert.Equal(t, []string{"issues", "stars"}, cfg.SourceKeys())
				assert.Equal(t, "name", cfg.GroupBy)
			},
		},
		{
			name: "flags override config file",
			args: []string{"--config", cfgPath, "--group-by", "date"},
			check: func(t *testing.T, cfg *prep.Config) {
				assert.Equal(t, []string{"issues", "stars"}, cfg.SourceKeys())
				assert.Equal(t, "date", cfg.GroupBy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runWith(t, prepCmd().Flags, tt.args, func(_ context.Context, c *cli.Command) error {
				cfg, err := prepConfigFromCmd(c)
				require.NoError(t, err)
				tt.check(t, cfg)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestPrepConfigFromCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"source without path", []string{"--source", "issues"}},
		{"duplicate source", []string{"--source", "a=x.json", "--source", "a=y.json"}},
		{"bad alias", []string{"--alias", "nope"}},
		{"bad empty policy", []string{"--empty-policy", "bogus"}},
		{"bad locale", []string{"--locale", "not a locale"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runWith(t, prepCmd().Flags, tt.args, func(_ context.Context, c *cli.Command) error {
				_, err := prepConfigFromCmd(c)
				return err
			})
			assert.Error(t, err)
		})
	}
}

func TestPrepCommand(t *testing.T) {
	dir := t.TempDir()
	issues := writeTestFile(t, dir, "issues.json", `[
		{"name":"Go","year":"2020","quarter":"1","count":"5"},
		{"name":"Perl 6","year":"2020","quarter":"1","count":"1"}
	]`)
	stars := writeTestFile(t, dir, "stars.json", `[
		{"name":"Go","year":"2020","quarter":"2","count":"3"}
	]`)
	out := filepath.Join(dir, "out", "dataset.yaml")

	err := newRootCmd().Run(context.Background(), []string{
		name, "--log-level", "error", "prep",
		"--source", "issues=" + issues,
		"--source", "stars=" + stars,
		"--output", out,
		"--format", "yaml",
	})
	require.NoError(t, err)

	ds, err := prep.LoadDataset(context.Background(), serializer.NewFetcher(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "date", "issues", "stars"}, ds.Items.Keys)
	assert.Equal(t, 3, ds.Items.Len())
	assert.Equal(t, 2, ds.Sums.Len())
	assert.Equal(t, version, ds.Metadata["version"])
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	left := writeTestFile(t, dir, "left.json", `[
		{"name":"Go","date":"2020Q1","issues":5},
		{"name":"Rust","date":"2020Q1","issues":2}
	]`)
	right := writeTestFile(t, dir, "right.json", `{"keys":["name","date","stars"],"rows":[["Go","2020Q1",7]]}`)
	out := filepath.Join(dir, "merged.json")

	err := newRootCmd().Run(context.Background(), []string{
		name, "--log-level", "error", "merge",
		"--on", "name", "--on", "date",
		"--output", out,
		left, right,
	})
	require.NoError(t, err)

	res, err := serializer.FromFile[prep.MergeResult](out)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "date"}, res.On)
	assert.Equal(t, []string{"name", "date", "issues", "stars"}, res.Table.Keys)
	assert.Equal(t, 2, res.Table.Len())
	assert.Equal(t, 1, res.Stats.Collisions)
}

func TestMergeCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "in.json", `[{"name":"Go","date":"2020Q1","issues":5}]`)

	tests := []struct {
		name string
		args []string
	}{
		{"missing on", []string{in, in}},
		{"one input", []string{"--on", "name", in}},
		{"three inputs", []string{"--on", "name", in, in, in}},
		{"bad policy", []string{"--on", "name", "--empty-policy", "bogus", in, in}},
		{"bad locale", []string{"--on", "name", "--locale", "not a locale", in, in}},
		{"missing input", []string{"--on", "name", in, filepath.Join(dir, "missing.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{name, "--log-level", "error", "merge"}, tt.args...)
			err := newRootCmd().Run(context.Background(), args)
			assert.Error(t, err)
		})
	}
}

func TestServeCommandRequiresDataset(t *testing.T) {
	t.Setenv("LANGPOP_DATASET", "")
	err := newRootCmd().Run(context.Background(), []string{name, "--log-level", "error", "serve"})
	assert.Error(t, err)
}
