package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testTable struct{}

func (testTable) TableHeader() []string { return []string{"name", "stars"} }
func (testTable) TableRows() [][]string {
	return [][]string{{"Go", "12"}, {"Rust", "7"}}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "a", Value: 1}, {Name: "b", Value: 2}}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got []testConfig
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 || got[1].Value != 2 {
		t.Errorf("unexpected round trip: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented JSON")
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), testConfig{Name: "a", Value: 1}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got testConfig
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got.Name != "a" || got.Value != 1 {
		t.Errorf("unexpected round trip: %+v", got)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{
			name:     "flattened struct",
			data:     testConfig{Name: "a", Value: 1},
			contains: []string{"FIELD", "VALUE", "Name", "Value"},
		},
		{
			name:     "tabler",
			data:     testTable{},
			contains: []string{"NAME", "STARS", "Go", "Rust"},
		},
		{
			name:     "nested map",
			data:     map[string]any{"outer": map[string]int{"inner": 3}},
			contains: []string{"outer.inner", "3"},
		},
		{
			name:     "empty",
			data:     struct{}{},
			contains: []string{"<empty>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.data); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := NewWriter(FormatJSON, &buf).Serialize(ctx, 1); err == nil {
		t.Error("expected error for canceled context")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written after cancellation")
	}
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	w := NewWriter(Format("xml"), nil)
	if w.format != FormatJSON {
		t.Errorf("format = %v, want %v", w.format, FormatJSON)
	}
	if w.output != os.Stdout {
		t.Error("nil output should default to stdout")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"table", FormatTable, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat_Extension(t *testing.T) {
	if FormatTable.Extension() != "txt" || FormatJSON.Extension() != "json" || FormatYAML.Extension() != "yaml" {
		t.Error("unexpected format extensions")
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		for _, p := range []string{"", "  ", "-"} {
			s, err := NewFileWriterOrStdout(FormatJSON, p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w, ok := s.(*Writer); !ok || w.output != os.Stdout {
				t.Errorf("path %q should write to stdout", p)
			}
		}
	})

	t.Run("file with parent dirs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "nested", "dataset.json")
		s, err := NewFileWriterOrStdout(FormatJSON, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.Serialize(context.Background(), testConfig{Name: "x", Value: 9}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if err := Close(s); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := Close(s); err != nil {
			t.Errorf("second Close should be a no-op: %v", err)
		}

		got, err := FromFile[testConfig](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if got.Value != 9 {
			t.Errorf("Value = %d, want 9", got.Value)
		}
	})

	t.Run("configmap", func(t *testing.T) {
		s, err := NewFileWriterOrStdout(FormatYAML, "cm://ns/name")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.(*ConfigMapWriter); !ok {
			t.Errorf("expected *ConfigMapWriter, got %T", s)
		}
	})

	t.Run("invalid configmap", func(t *testing.T) {
		if _, err := NewFileWriterOrStdout(FormatYAML, "cm://ns"); err == nil {
			t.Error("expected error for malformed ConfigMap URI")
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := NewFileWriterOrStdout(FormatJSON, filepath.Join(blocker, "out.json")); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}
