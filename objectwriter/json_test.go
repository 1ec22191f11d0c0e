package objectwriter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONWriter_Empty(t *testing.T) {
	out, err := Render(func(ObjectWriter) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestJSONWriter_Indented(t *testing.T) {
	out, err := Render(func(w ObjectWriter) error {
		require.NoError(t, w.WriteNameInt("version", 3))
		require.NoError(t, w.WriteObjectStart("targets"))
		require.NoError(t, w.WriteObjectStart("net45"))
		require.NoError(t, w.WriteObjectEnd())
		require.NoError(t, w.WriteObjectEnd())
		require.NoError(t, w.WriteNameArray("files", []string{"lib/a.dll", "lib/<b>.dll"}))
		require.NoError(t, w.WriteNameArray("empty", nil))
		require.NoError(t, w.WriteNonEmptyNameArray("skipped", nil))
		require.NoError(t, w.WriteArrayStart("logs"))
		require.NoError(t, w.WriteObjectStart(""))
		require.NoError(t, w.WriteNameValue("code", "NU1000"))
		require.NoError(t, w.WriteNameBool("ok", false))
		require.NoError(t, w.WriteNameNull("none"))
		require.NoError(t, w.WriteObjectEnd())
		return w.WriteArrayEnd()
	})
	require.NoError(t, err)

	want := `{
  "version": 3,
  "targets": {
    "net45": {}
  },
  "files": [
    "lib/a.dll",
    "lib/<b>.dll"
  ],
  "empty": [],
  "logs": [
    {
      "code": "NU1000",
      "ok": false,
      "none": null
    }
  ]
}`
	assert.Equal(t, want, string(out))
}

func TestJSONWriter_Escaping(t *testing.T) {
	out, err := Render(func(w ObjectWriter) error {
		return w.WriteNameValue(`q"uote`, "line\nbreak\\")
	})

	require.NoError(t, err)
	assert.Equal(t, "{\n  \"q\\\"uote\": \"line\\nbreak\\\\\"\n}", string(out))
}

func TestJSONWriter_HTMLCharactersUnescaped(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"ampersand", "/src/R&D/a.csproj", `"/src/R&D/a.csproj"`},
		{"angle brackets", "lib/<b>.dll", `"lib/<b>.dll"`},
		{"control character", "a\tb", `"a\tb"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(func(w ObjectWriter) error {
				return w.WriteNameValue("path", tt.value)
			})

			require.NoError(t, err)
			assert.Equal(t, "{\n  \"path\": "+tt.want+"\n}", string(out))
		})
	}
}

func TestJSONWriter_InvalidState(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	assert.ErrorIs(t, w.WriteObjectEnd(), ErrNoOpenObject)
	assert.ErrorIs(t, w.WriteArrayEnd(), ErrNoOpenArray)

	require.NoError(t, w.WriteArrayStart("a"))
	assert.ErrorIs(t, w.WriteNameValue("named", "x"), ErrInvalidName)
	assert.ErrorIs(t, w.WriteObjectEnd(), ErrNoOpenObject)
	assert.ErrorIs(t, w.Close(), ErrUnclosedScope)

	require.NoError(t, w.WriteArrayEnd())
	require.NoError(t, w.Close())
	assert.Equal(t, "{\n  \"a\": []\n}", buf.String())
}
