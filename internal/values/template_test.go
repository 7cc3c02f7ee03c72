package values

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLiteralPassthrough(t *testing.T) {
	tmpl, err := Parse(`{"name": "hello", "count": 5, "flag": true}`)
	require.NoError(t, err)
	doc := tmpl.Generate(Seed{SampleIndex: 0, Phase: "create", ThreadID: 0}).(map[string]interface{})
	require.Equal(t, "hello", doc["name"])
	require.Equal(t, float64(5), doc["count"])
	require.Equal(t, true, doc["flag"])
}

func TestParseIntRange(t *testing.T) {
	tmpl, err := Parse(`{"x": "int:1..3"}`)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		doc := tmpl.Generate(Seed{SampleIndex: i, Phase: "create", ThreadID: 0}).(map[string]interface{})
		x := doc["x"].(int)
		require.GreaterOrEqual(t, x, 1)
		require.LessOrEqual(t, x, 3)
	}
}

func TestParseTextRangeLength(t *testing.T) {
	tmpl, err := Parse(`{"t": "text:10..50"}`)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		doc := tmpl.Generate(Seed{SampleIndex: i, Phase: "create", ThreadID: 0}).(map[string]interface{})
		s := doc["t"].(string)
		require.GreaterOrEqual(t, len(s), 10)
		require.LessOrEqual(t, len(s), 50)
	}
}

func TestParseStringExactLength(t *testing.T) {
	tmpl, err := Parse(`{"s": "string:50"}`)
	require.NoError(t, err)
	doc := tmpl.Generate(Seed{SampleIndex: 0, Phase: "create", ThreadID: 0}).(map[string]interface{})
	require.Len(t, doc["s"].(string), 50)
}

func TestParseEnums(t *testing.T) {
	tmpl, err := Parse(`{"a": "string_enum:x,y,z", "b": "int_enum:1,2,3", "c": "float_enum:1.5,2.5"}`)
	require.NoError(t, err)
	doc := tmpl.Generate(Seed{SampleIndex: 0, Phase: "create", ThreadID: 0}).(map[string]interface{})
	require.Contains(t, []string{"x", "y", "z"}, doc["a"])
	require.Contains(t, []int{1, 2, 3}, doc["b"])
	require.Contains(t, []float64{1.5, 2.5}, doc["c"])
}

func TestParseWords(t *testing.T) {
	tmpl, err := Parse(`{"w": "words:4;alpha,beta,gamma"}`)
	require.NoError(t, err)
	doc := tmpl.Generate(Seed{SampleIndex: 0, Phase: "create", ThreadID: 0}).(map[string]interface{})
	require.NotEmpty(t, doc["w"].(string))
}

func TestParseNestedObject(t *testing.T) {
	tmpl, err := Parse(`{"outer": {"inner": "int:1..1"}}`)
	require.NoError(t, err)
	doc := tmpl.Generate(Seed{SampleIndex: 0, Phase: "create", ThreadID: 0}).(map[string]interface{})
	inner := doc["outer"].(map[string]interface{})
	require.Equal(t, 1, inner["inner"])
}

func TestParseMalformedLeafFails(t *testing.T) {
	_, err := Parse(`{"x": "int:5..1"}`)
	require.Error(t, err)

	_, err = Parse(`{"x": "string_enum:"}`)
	require.Error(t, err)
}

func TestParseInvalidJSONFails(t *testing.T) {
	_, err := Parse(`not json`)
	require.Error(t, err)
}

func TestGenerateReproducibleForSameSeed(t *testing.T) {
	tmpl, err := Parse(`{"s": "string:20", "n": "int:1..1000000", "u": "uuid"}`)
	require.NoError(t, err)

	seed := Seed{SampleIndex: 42, Phase: "update", ThreadID: 3}
	a := tmpl.Generate(seed)
	b := tmpl.Generate(seed)
	require.Equal(t, a, b)
}

func TestGenerateDiffersAcrossSamples(t *testing.T) {
	tmpl, err := Parse(`{"s": "string:32"}`)
	require.NoError(t, err)

	a := tmpl.Generate(Seed{SampleIndex: 1, Phase: "create", ThreadID: 0})
	b := tmpl.Generate(Seed{SampleIndex: 2, Phase: "create", ThreadID: 0})
	require.NotEqual(t, a, b)
}

func TestFieldsReportsTopLevelObjectShape(t *testing.T) {
	tmpl, err := Parse(`{"text": "string:50", "integer": "int", "nested": {"a": 1}}`)
	require.NoError(t, err)
	fields := tmpl.Fields()
	names := map[string]string{}
	for _, f := range fields {
		names[f.Name] = f.Kind
	}
	require.Equal(t, "string", names["text"])
	require.Equal(t, "int", names["integer"])
	require.Equal(t, "object", names["nested"])
}
