package spec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{`null`, nil},
		{`true`, true},
		{`12.5`, 12.5},
		{`"a\nb"`, "a\nb"},
		{`[]`, []any{}},
		{`[1, "x", false]`, []any{1.0, "x", false}},
	}

	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := Decode([]byte(tc.src))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_ObjectOrderSurvivesRoundTrip(t *testing.T) {
	src := `{"z":1,"a":{"y":true,"b":null},"m":["q"]}`
	v, err := Decode([]byte(src))
	require.NoError(t, err)

	fields, ok := Fields(v)
	require.True(t, ok)
	keys := []string{fields[0].Key, fields[1].Key, fields[2].Key}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestDecode_EscapedKeys(t *testing.T) {
	v, err := Decode([]byte(`{"a\"b": 1}`))
	require.NoError(t, err)
	fields, _ := Fields(v)
	require.Len(t, fields, 1)
	assert.Equal(t, `a"b`, fields[0].Key)
}

func TestDecode_Invalid(t *testing.T) {
	for _, src := range []string{``, `{`, `{"a":1}}`, `[1,]`, `nope`} {
		_, err := Decode([]byte(src))
		assert.ErrorIs(t, err, ErrInvalidJSON, src)
	}
}

func TestDecode_TooDeep(t *testing.T) {
	src := strings.Repeat("[", MaxValueDepth+2) + strings.Repeat("]", MaxValueDepth+2)
	_, err := Decode([]byte(src))
	assert.ErrorIs(t, err, ErrValueTooDeep)
}

func TestFields_PlainMapIsSorted(t *testing.T) {
	fields, ok := Fields(map[string]any{"b": 1, "a": 2, "c": 3})
	require.True(t, ok)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "c", fields[2].Key)
}

func TestCloneValue_Unsupported(t *testing.T) {
	_, err := CloneValue(map[string]any{"fn": func() {}})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
