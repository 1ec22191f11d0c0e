package jsonstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onProperty returns a reader positioned on the "a" property of {"a":<value>}.
func onProperty(t *testing.T, value string) *Reader {
	t.Helper()
	r := newTestReader(t, `{"a":`+value+`}`)
	mustRead(t, r)
	require.Equal(t, PropertyName, r.TokenType())
	return r
}

// onValue returns a reader positioned on <value> inside {"a":<value>}.
func onValue(t *testing.T, value string) *Reader {
	t.Helper()
	r := onProperty(t, value)
	mustRead(t, r)
	return r
}

func TestReadNextTokenAsString(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{`"b"`, "b"},
		{`true`, "True"},
		{`false`, "False"},
		{`-2`, "-2"},
		{`3.14`, "3.14"},
		{`null`, ""},
		{`"ab"`, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := onProperty(t, tt.value)

			got, err := r.ReadNextTokenAsString()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadNextTokenAsString_SkipsContainers(t *testing.T) {
	r := newTestReader(t, `{"a":{"b":[1,2]},"c":"d"}`)
	mustRead(t, r)

	got, err := r.ReadNextTokenAsString()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, EndObject, r.TokenType())

	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("c"))
}

func TestReadNextTokenAsString_Malformed(t *testing.T) {
	r := onProperty(t, `"b`)

	_, err := r.ReadNextTokenAsString()
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestReadNextTokenAsBoolOrFalse(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`"words"`, false},
		{`-3`, false},
		{`3.3`, false},
		{`[]`, false},
		{`{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := onProperty(t, tt.value)

			got, err := r.ReadNextTokenAsBoolOrFalse()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			ok, err := r.Read()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, EndObject, r.TokenType())
		})
	}
}

func TestReadDelimitedString(t *testing.T) {
	t.Run("splits on commas and spaces", func(t *testing.T) {
		r := onProperty(t, `"a, b,,c  d"`)

		got, err := r.ReadDelimitedString()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, got)
		assert.Equal(t, String, r.TokenType())
	})

	tests := []struct {
		value string
		token TokenType
	}{
		{`true`, True},
		{`false`, False},
		{`-2`, Number},
		{`{}`, StartObject},
		{`["a"]`, StartArray},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := onProperty(t, tt.value)

			_, err := r.ReadDelimitedString()
			var castErr *CastError
			require.ErrorAs(t, err, &castErr)
			assert.Equal(t, tt.token, castErr.Found)
			assert.Equal(t, tt.token, r.TokenType())
		})
	}
}

func TestReadStringArray(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
		end   TokenType
	}{
		{name: "null", value: `null`, want: nil, end: Null},
		{name: "string", value: `"a"`, want: nil, end: String},
		{name: "object", value: `{}`, want: nil, end: StartObject},
		{name: "empty array", value: `[]`, want: nil, end: EndArray},
		{
			name:  "scalars",
			value: `["a",-2,3.14,true,null]`,
			want:  []string{"a", "-2", "3.14", "True", ""},
			end:   EndArray,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := onValue(t, tt.value)

			got, err := r.ReadStringArray()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.end, r.TokenType())
		})
	}
}

func TestReadStringArray_NestedContainers(t *testing.T) {
	for _, value := range []string{`[[]]`, `[{}]`} {
		t.Run(value, func(t *testing.T) {
			r := onValue(t, value)

			_, err := r.ReadStringArray()
			var castErr *CastError
			assert.ErrorAs(t, err, &castErr)
		})
	}
}

func TestReadNextStringOrArrayOfStrings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
		end   TokenType
	}{
		{name: "null", value: `null`, want: nil, end: Null},
		{name: "true", value: `true`, want: nil, end: True},
		{name: "false", value: `false`, want: nil, end: False},
		{name: "integer", value: `-2`, want: nil, end: Number},
		{name: "float", value: `3.14`, want: nil, end: Number},
		{name: "object", value: `{}`, want: nil, end: StartObject},
		{name: "string", value: `"b"`, want: []string{"b"}, end: String},
		{name: "string is not split", value: `"b,c,d"`, want: []string{"b,c,d"}, end: String},
		{name: "empty array", value: `[]`, want: []string{}, end: EndArray},
		{name: "null element", value: `[null]`, want: []string{""}, end: EndArray},
		{name: "bool element", value: `[true]`, want: []string{"True"}, end: EndArray},
		{name: "strings", value: `["b","c"]`, want: []string{"b", "c"}, end: EndArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := onProperty(t, tt.value)

			got, err := r.ReadNextStringOrArrayOfStrings()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.end, r.TokenType())
		})
	}
}

func TestReadNextStringOrArrayOfStrings_NestedContainers(t *testing.T) {
	tests := []struct {
		value string
		token TokenType
	}{
		{`[[]]`, StartArray},
		{`[{}]`, StartObject},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := onProperty(t, tt.value)

			_, err := r.ReadNextStringOrArrayOfStrings()
			var castErr *CastError
			require.ErrorAs(t, err, &castErr)
			assert.Equal(t, tt.token, r.TokenType())
		})
	}
}

func TestReadStringArrayFromArrayStart(t *testing.T) {
	r := onValue(t, `[null, true, -2, 3.14, "a"]`)

	got, err := r.ReadStringArrayFromArrayStart()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "True", "-2", "3.14", "a"}, got)
	assert.Equal(t, EndArray, r.TokenType())

	r = onValue(t, `[]`)
	got, err = r.ReadStringArrayFromArrayStart()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	r = onValue(t, `"a"`)
	_, err = r.ReadStringArrayFromArrayStart()
	var castErr *CastError
	assert.ErrorAs(t, err, &castErr)
}

func TestReadNextStringArray(t *testing.T) {
	r := newTestReader(t, `{"a":{"x":[1]},"b":["c"]}`)
	mustRead(t, r)

	got, err := r.ReadNextStringArray()
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, EndObject, r.TokenType())

	mustRead(t, r)
	got, err = r.ReadNextStringArray()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got)
}

func TestReadObject(t *testing.T) {
	r := newTestReader(t, `{"a":{"x":1},"b":[1,2],"c":"v","d":null}`)

	var names []string
	var c string
	err := r.ReadObject(func(name string) error {
		names = append(names, name)
		if name == "c" {
			var err error
			c, err = r.ReadNextTokenAsString()
			return err
		}
		return r.Skip()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, "v", c)
	assert.Equal(t, EndObject, r.TokenType())
}

func TestReadArray(t *testing.T) {
	r := onValue(t, `[{"n":1},{"n":2}]`)

	var count int
	err := r.ReadArray(func() error {
		count++
		return r.Skip()
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, EndArray, r.TokenType())
}

func TestSplitDelimited(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitDelimited(" a ,b, "))
	assert.Empty(t, SplitDelimited(""))
}
