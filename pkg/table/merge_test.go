package table

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/row"
)

var quiet = WithLogger(slog.New(slog.DiscardHandler))

func TestMerge(t *testing.T) {
	on := []string{"name", "date"}

	tests := []struct {
		name       string
		a          row.Rows
		b          row.Rows
		want       row.Rows
		collisions int
	}{
		{
			name: "disjoint keys zero fill",
			a:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 5))},
			b:    row.Rows{row.New(row.F("name", "Rust"), row.F("date", "2020Q1"), row.F("stars", 3))},
			want: row.Rows{
				row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 5), row.F("stars", 0)),
				row.New(row.F("name", "Rust"), row.F("date", "2020Q1"), row.F("issues", 0), row.F("stars", 3)),
			},
		},
		{
			name: "collision sums numeric field",
			a:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 5))},
			b:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 3))},
			want: row.Rows{
				row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 8)),
			},
			collisions: 1,
		},
		{
			name: "collision fills placeholder",
			a:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 5))},
			b:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("stars", 3))},
			want: row.Rows{
				row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 5), row.F("stars", 3)),
			},
			collisions: 1,
		},
		{
			name: "label overwritten by later row",
			a:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("label", "old"))},
			b:    row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("label", "new"))},
			want: row.Rows{
				row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("label", "new")),
			},
			collisions: 1,
		},
		{
			name: "ordered by key tuple",
			a: row.Rows{
				row.New(row.F("name", "Go"), row.F("date", "2020Q2"), row.F("issues", 1)),
				row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 2)),
			},
			b: row.Rows{
				row.New(row.F("name", "C"), row.F("date", "2020Q2"), row.F("issues", 3)),
			},
			want: row.Rows{
				row.New(row.F("name", "C"), row.F("date", "2020Q2"), row.F("issues", 3)),
				row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 2)),
				row.New(row.F("name", "Go"), row.F("date", "2020Q2"), row.F("issues", 1)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := Merge(tt.a, tt.b, on, quiet)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			require.NotNil(t, stats)
			assert.Equal(t, len(tt.want), stats.Rows)
			assert.Equal(t, tt.collisions, stats.Collisions)
			assert.Equal(t, len(tt.a)+len(tt.b), stats.Processed)
		})
	}
}

func TestMergeOutputSchema(t *testing.T) {
	a := row.Rows{row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("stars", 1))}
	b := row.Rows{row.New(row.F("date", "2020Q1"), row.F("name", "Go"), row.F("issues", 1))}

	got, _, err := Merge(a, b, []string{"name", "date"}, quiet)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"name", "date", "issues", "stars"}, got[0].Fields())
}

func TestMergeSelfDoubles(t *testing.T) {
	rows := row.Rows{
		row.New(row.F("name", "Go"), row.F("date", "2020Q1"), row.F("issues", 4), row.F("stars", 10)),
		row.New(row.F("name", "Rust"), row.F("date", "2020Q1"), row.F("issues", 1), row.F("stars", 7)),
	}

	got, stats, err := Merge(rows, rows, []string{"name", "date"}, quiet)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, float64(8), got[0].Value("issues").Float())
	assert.Equal(t, float64(20), got[0].Value("stars").Float())
	assert.Equal(t, float64(2), got[1].Value("issues").Float())
	assert.Equal(t, float64(14), got[1].Value("stars").Float())
	assert.Equal(t, 2, stats.Collisions)
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	a := row.Rows{row.New(row.F("name", "Go"), row.F("issues", 5))}
	b := row.Rows{row.New(row.F("name", "Go"), row.F("issues", 3))}
	origA, origB := a.Clone(), b.Clone()

	got, _, err := Merge(a, b, []string{"name"}, quiet)
	require.NoError(t, err)
	got[0].Set("issues", row.Num(100))

	assert.True(t, origA.Equal(a))
	assert.True(t, origB.Equal(b))
}

func TestMergeEmptyInput(t *testing.T) {
	full := row.Rows{
		row.New(row.F("name", "Rust"), row.F("stars", 2)),
		row.New(row.F("name", "Go"), row.F("issues", 1)),
	}

	t.Run("drop is default", func(t *testing.T) {
		got, stats, err := Merge(full, nil, []string{"name"}, quiet)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, 0, stats.Rows)

		got, _, err = Merge(row.Rows{}, full, []string{"name"}, quiet)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("keep returns projected side", func(t *testing.T) {
		got, stats, err := Merge(nil, full, []string{"name"}, quiet, WithEmptyPolicy(EmptyKeep))
		require.NoError(t, err)
		want := row.Rows{
			row.New(row.F("name", "Go"), row.F("issues", 1), row.F("stars", 0)),
			row.New(row.F("name", "Rust"), row.F("issues", 0), row.F("stars", 2)),
		}
		assert.True(t, want.Equal(got), "got %v", got)
		assert.Equal(t, 2, stats.Rows)
	})

	t.Run("keep with both empty", func(t *testing.T) {
		got, _, err := Merge(nil, nil, []string{"name"}, quiet, WithEmptyPolicy(EmptyKeep))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("fail", func(t *testing.T) {
		_, _, err := Merge(full, nil, []string{"name"}, quiet, WithEmptyPolicy(EmptyFail))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyInput))
	})
}

func TestMergeErrors(t *testing.T) {
	tests := []struct {
		name string
		a    row.Rows
		b    row.Rows
		on   []string
		code errors.ErrorCode
	}{
		{
			name: "no key fields",
			a:    row.Rows{row.New(row.F("name", "Go"))},
			b:    row.Rows{row.New(row.F("name", "Go"))},
			on:   nil,
			code: errors.ErrCodeInvalidMergeKey,
		},
		{
			name: "no key fields with empty input",
			on:   []string{},
			code: errors.ErrCodeInvalidMergeKey,
		},
		{
			name: "key missing from first row",
			a:    row.Rows{row.New(row.F("issues", 1))},
			b:    row.Rows{row.New(row.F("name", "Go"))},
			on:   []string{"name"},
			code: errors.ErrCodeInvalidMergeKey,
		},
		{
			name: "key missing from later row",
			a:    row.Rows{row.New(row.F("name", "Go"))},
			b:    row.Rows{row.New(row.F("stars", 1))},
			on:   []string{"name"},
			code: errors.ErrCodeInvalidMergeKey,
		},
		{
			name: "key kind differs",
			a:    row.Rows{row.New(row.F("name", "Go"))},
			b:    row.Rows{row.New(row.F("name", 7))},
			on:   []string{"name"},
			code: errors.ErrCodeSchemaMismatch,
		},
		{
			name: "string added to number",
			a:    row.Rows{row.New(row.F("name", "Go"), row.F("issues", 1))},
			b:    row.Rows{row.New(row.F("name", "Go"), row.F("issues", "many"))},
			on:   []string{"name"},
			code: errors.ErrCodeSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := Merge(tt.a, tt.b, tt.on, quiet)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Nil(t, stats)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestMergeStringOverwritesWithNumber(t *testing.T) {
	a := row.Rows{row.New(row.F("name", "Go"), row.F("note", "n/a"))}
	b := row.Rows{row.New(row.F("name", "Go"), row.F("note", 3))}

	got, _, err := Merge(a, b, []string{"name"}, quiet)
	require.NoError(t, err)
	assert.Equal(t, row.Num(3), got[0].Value("note"))
}

func TestSchema(t *testing.T) {
	rows := row.Rows{
		row.New(row.F("name", "Go"), row.F("stars", 1)),
		row.New(row.F("date", "2020Q1"), row.F("issues", 1), row.F("name", "C")),
	}
	assert.Equal(t, []string{"name", "date", "issues", "stars"}, Schema(rows, []string{"name", "date"}))
	assert.Equal(t, []string{"name"}, Schema(nil, []string{"name"}))
}
