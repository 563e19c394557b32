package row

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/errors"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		wantKind Kind
		wantAny  any
		wantErr  bool
	}{
		{"nil", nil, KindNull, nil, false},
		{"string", "Go", KindString, "Go", false},
		{"empty string", "", KindString, "", false},
		{"float64", 3.5, KindNumber, 3.5, false},
		{"int", 42, KindNumber, float64(42), false},
		{"int64", int64(7), KindNumber, float64(7), false},
		{"uint32", uint32(9), KindNumber, float64(9), false},
		{"json number", json.Number("12"), KindNumber, float64(12), false},
		{"value passthrough", Str("x"), KindString, "x", false},
		{"bool rejected", true, KindNull, nil, true},
		{"slice rejected", []int{1}, KindNull, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeSchemaMismatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.wantAny, got.Any())
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "8", Num(8).String())
	assert.Equal(t, "2.5", Num(2.5).String())
	assert.Equal(t, "2020Q1", Str("2020Q1").String())
	assert.Equal(t, "null", Null().String())
}

func TestValueAccessors(t *testing.T) {
	assert.Equal(t, float64(0), Str("x").Float())
	assert.Equal(t, "", Num(1).Text())
	assert.True(t, Value{}.IsNull())
	assert.True(t, Num(0).IsNumber())
	assert.True(t, Str("").IsString())
	assert.Equal(t, "number", KindNumber.String())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Num(1).Equal(Num(1)))
	assert.False(t, Num(1).Equal(Num(2)))
	assert.False(t, Num(0).Equal(Str("0")))
	assert.True(t, Null().Equal(Value{}))
}

func TestNumberOrZero(t *testing.T) {
	n, err := NumberOrZero(Null())
	require.NoError(t, err)
	assert.Equal(t, float64(0), n)

	n, err = NumberOrZero(Num(5))
	require.NoError(t, err)
	assert.Equal(t, float64(5), n)

	_, err = NumberOrZero(Str("five"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSchemaMismatch))
}

func TestValueJSON(t *testing.T) {
	vals := []Value{Num(8), Str("Go"), Null()}
	data, err := json.Marshal(vals)
	require.NoError(t, err)
	assert.JSONEq(t, `[8,"Go",null]`, string(data))

	var back []Value
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 3)
	for i := range vals {
		assert.True(t, vals[i].Equal(back[i]), "index %d", i)
	}

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestValueYAML(t *testing.T) {
	var vals []Value
	require.NoError(t, yaml.Unmarshal([]byte("[8, Go, null, true, \"12\"]"), &vals))
	require.Len(t, vals, 5)
	assert.True(t, vals[0].Equal(Num(8)))
	assert.True(t, vals[1].Equal(Str("Go")))
	assert.True(t, vals[2].IsNull())
	assert.True(t, vals[3].Equal(Str("true")))
	assert.True(t, vals[4].Equal(Str("12")))

	out, err := yaml.Marshal([]Value{Num(3), Str("x")})
	require.NoError(t, err)
	assert.Equal(t, "- 3\n- x\n", string(out))
}
