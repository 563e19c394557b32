package prep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/header"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/server"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Run(context.Background(), testConfig(writeSources(t)), quiet)
	require.NoError(t, err)
	return ds
}

func serve(h http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_NoDataset(t *testing.T) {
	h := NewHandler(nil)

	for path, fn := range h.Routes() {
		t.Run(path, func(t *testing.T) {
			rec := serve(fn, http.MethodGet, path)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(errors.ErrCodeUnavailable), resp.Code)
			assert.True(t, resp.Retryable)
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(testDataset(t))

	rec := serve(h.HandleDataset, http.MethodPost, "/v1/dataset")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestHandler_Dataset(t *testing.T) {
	h := NewHandler(testDataset(t))

	rec := serve(h.Routes()["/v1/dataset"], http.MethodGet, "/v1/dataset")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=600", rec.Header().Get("Cache-Control"))

	var ds Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	assert.Equal(t, header.KindDataset, ds.Kind)
	assert.Equal(t, 4, ds.Items.Len())
}

func TestHandler_Items(t *testing.T) {
	h := NewHandler(testDataset(t))
	h.CacheTTL = 0

	tests := []struct {
		name   string
		target string
		status int
		rows   int
	}{
		{"all", "/v1/items", http.StatusOK, 4},
		{"one name", "/v1/items?name=Go", http.StatusOK, 2},
		{"repeated name", "/v1/items?name=Go&name=Rust", http.StatusOK, 3},
		{"unknown name", "/v1/items?name=COBOL", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h.HandleItems, http.MethodGet, tt.target)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			var resp ItemsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.rows, resp.Items.Len())
			assert.NotEmpty(t, resp.RunID)
		})
	}
}

func TestHandler_Sums(t *testing.T) {
	h := NewHandler(nil)
	h.SetDataset(testDataset(t))

	rec := serve(h.HandleSums, http.MethodGet, "/v1/sums")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SumsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "date", resp.GroupBy)
	assert.Equal(t, 2, resp.Sums.Len())
}

func TestHandler_ThroughServer(t *testing.T) {
	h := NewHandler(testDataset(t))
	s := server.New(server.WithHandler(h.Routes()))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/items?name=Raku", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp ItemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Items.Len())
}

func TestLoadDataset(t *testing.T) {
	ctx := context.Background()
	ds := testDataset(t)
	dir := t.TempDir()

	for _, format := range []serializer.Format{serializer.FormatJSON, serializer.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(dir, "dataset."+format.Extension())
			w, err := serializer.NewFileWriterOrStdout(format, path)
			require.NoError(t, err)
			require.NoError(t, w.Serialize(ctx, ds))
			require.NoError(t, serializer.Close(w))

			got, err := LoadDataset(ctx, serializer.NewFetcher(), path)
			require.NoError(t, err)
			assert.Equal(t, ds.RunID(), got.RunID())
			assert.Equal(t, ds.Items.Keys, got.Items.Keys)
			assert.Equal(t, ds.Names(), got.Names())
			assert.Equal(t, ds.Stats, got.Stats)
		})
	}

	t.Run("wrong kind", func(t *testing.T) {
		path := filepath.Join(dir, "other.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"kind":"MergeResult"}`), 0o600))
		_, err := LoadDataset(ctx, serializer.NewFetcher(), path)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadDataset(ctx, serializer.NewFetcher(), filepath.Join(dir, "missing.json"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
	})

	t.Run("empty location", func(t *testing.T) {
		_, err := LoadDataset(ctx, serializer.NewFetcher(), "")
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
	})
}
