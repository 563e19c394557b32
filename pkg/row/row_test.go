package row

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewKeepsOrder(t *testing.T) {
	r := New(F("name", "Go"), F("date", "2020Q1"), F("stars", 5))
	assert.Equal(t, []string{"name", "date", "stars"}, r.Fields())
	assert.Equal(t, 3, r.Len())

	r.Set("name", Str("Rust"))
	assert.Equal(t, []string{"name", "date", "stars"}, r.Fields(), "replacing keeps position")

	r.Set("issues", Num(2))
	assert.Equal(t, []string{"name", "date", "stars", "issues"}, r.Fields())
}

func TestGetHasDelete(t *testing.T) {
	r := New(F("name", "Go"), F("label", nil))

	v, ok := r.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Go", v.Text())

	assert.True(t, r.Has("label"), "null field still exists")
	assert.False(t, r.Has("stars"))
	assert.True(t, r.Value("stars").IsNull())

	r.Delete("name")
	assert.False(t, r.Has("name"))
	assert.Equal(t, []string{"label"}, r.Fields())
	r.Delete("missing")
	assert.Equal(t, 1, r.Len())
}

func TestNilRow(t *testing.T) {
	var r *Row
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Has("x"))
	assert.Nil(t, r.Fields())
	assert.Nil(t, r.Clone())
}

func TestClone(t *testing.T) {
	r := New(F("name", "Go"), F("stars", 1))
	c := r.Clone()
	c.Set("stars", Num(99))
	c.Set("extra", Num(1))

	assert.Equal(t, float64(1), r.Value("stars").Float())
	assert.False(t, r.Has("extra"))
}

func TestProject(t *testing.T) {
	r := New(F("name", "Go"), F("date", "2020Q1"), F("stars", 3), F("label", nil))
	p := r.Project([]string{"name", "date", "issues", "label", "stars"})

	assert.Equal(t, []string{"name", "date", "issues", "label", "stars"}, p.Fields())
	assert.True(t, p.Value("issues").Equal(Num(0)), "absent field defaults to zero")
	assert.True(t, p.Value("label").Equal(Num(0)), "null field defaults to zero")
	assert.True(t, p.Value("stars").Equal(Num(3)))

	p.Set("stars", Num(10))
	assert.Equal(t, float64(3), r.Value("stars").Float(), "projection does not alias")
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := New(F("name", "Go"), F("stars", 1))
	b := New(F("stars", 1), F("name", "Go"))
	assert.True(t, a.Equal(b))

	b.Set("stars", Num(2))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(New(F("name", "Go"))))
}

func TestRowJSON(t *testing.T) {
	r := New(F("name", "Go"), F("date", "2020Q1"), F("stars", 8))
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Go","date":"2020Q1","stars":8}`, string(data))

	var back Row
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2020Q2","name":"C","issues":3,"x":null}`), &back))
	assert.Equal(t, []string{"date", "name", "issues", "x"}, back.Fields())
	assert.True(t, back.Value("issues").Equal(Num(3)))
	assert.True(t, back.Has("x"))

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"nested":{"a":1}}`), &back))
}

func TestRowsJSON(t *testing.T) {
	var rows Rows
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"Go","stars":1},{"name":"C","issues":2}]`), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "stars", "issues"}, rows.Schema())
}

func TestRowYAML(t *testing.T) {
	r := New(F("name", "Go"), F("date", "2020Q1"), F("stars", 8))
	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "name: Go\ndate: 2020Q1\nstars: 8\n", string(out))

	var back Row
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, r.Fields(), back.Fields())
	assert.True(t, r.Equal(&back))
}

func TestRowsCloneAndEqual(t *testing.T) {
	rows := Rows{New(F("a", 1)), New(F("a", 2))}
	c := rows.Clone()
	assert.True(t, rows.Equal(c))

	c[0].Set("a", Num(5))
	assert.False(t, rows.Equal(c))
	assert.False(t, rows.Equal(c[:1]))
	assert.Nil(t, Rows(nil).Clone())
}

func TestRowString(t *testing.T) {
	r := New(F("name", "Go"), F("stars", 2))
	assert.Equal(t, "{name: Go, stars: 2}", r.String())
}

func TestFPanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() { F("b", true) })
}
