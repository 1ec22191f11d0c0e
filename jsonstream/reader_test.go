package jsonstream

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/willibrandon/projectmodel/jsonstream/mocks"
)

const smallJSON = `{"a":{"b":"c"}}`

func newTestReader(t *testing.T, doc string, opts ...Option) *Reader {
	t.Helper()
	r, err := NewReader(strings.NewReader(doc), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func mustRead(t *testing.T, r *Reader) {
	t.Helper()
	ok, err := r.Read()
	require.NoError(t, err)
	require.True(t, ok)
}

func rentMake(n int) []byte { return make([]byte, n) }

func TestNewReader_Errors(t *testing.T) {
	_, err := NewReader(nil)
	assert.ErrorIs(t, err, ErrNilStream)

	_, err = NewReader(strings.NewReader(smallJSON), WithBufferSize(512))
	assert.ErrorIs(t, err, ErrBufferSize)
}

func TestNewReader_PositionsOnFirstToken(t *testing.T) {
	r := newTestReader(t, smallJSON)

	assert.Equal(t, StartObject, r.TokenType())
	assert.True(t, r.IsFinalBlock())
	assert.Equal(t, DefaultBufferSize, r.BufferSize())
}

func TestNewReader_SkipsBOM(t *testing.T) {
	r := newTestReader(t, "\xEF\xBB\xBF{\"a\":1}")

	assert.Equal(t, StartObject, r.TokenType())
	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("a"))
}

func TestRead_TokenSequence(t *testing.T) {
	r := newTestReader(t, smallJSON)

	want := []TokenType{PropertyName, StartObject, PropertyName, String, EndObject, EndObject}
	for _, tt := range want {
		mustRead(t, r)
		assert.Equal(t, tt, r.TokenType())
	}

	ok, err := r.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRead_Scalars(t *testing.T) {
	r := newTestReader(t, `{"s":"x\"yA","i":42,"f":-12.5e1,"t":true,"n":null,"b":false}`)

	mustRead(t, r)
	mustRead(t, r)
	assert.Equal(t, `x"yA`, r.GetString())

	mustRead(t, r)
	mustRead(t, r)
	i, err := r.GetInt()
	require.NoError(t, err)
	assert.Equal(t, 42, i)

	mustRead(t, r)
	mustRead(t, r)
	f, err := r.GetFloat64()
	require.NoError(t, err)
	assert.InDelta(t, -125.0, f, 1e-9)
	_, err = r.GetInt()
	var castErr *CastError
	assert.ErrorAs(t, err, &castErr)

	mustRead(t, r)
	mustRead(t, r)
	b, err := r.GetBool()
	require.NoError(t, err)
	assert.True(t, b)

	mustRead(t, r)
	mustRead(t, r)
	assert.Equal(t, Null, r.TokenType())
	assert.Equal(t, "", r.GetString())

	mustRead(t, r)
	mustRead(t, r)
	assert.Equal(t, False, r.TokenType())
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		reads int
	}{
		{name: "unterminated string", doc: `{"a":"string}`, reads: 2},
		{name: "trailing garbage", doc: `{"a":"string"}ohno`, reads: 4},
		{name: "bad literal", doc: `{"a":tru}`, reads: 2},
		{name: "bad number", doc: `{"a":--1}`, reads: 2},
		{name: "bad escape", doc: `{"a":"\q"}`, reads: 2},
		{name: "missing colon", doc: `{"a" 1}`, reads: 2},
		{name: "unbalanced", doc: `{"a":[1}`, reads: 4},
		{name: "trailing comma", doc: `{"a":1,}`, reads: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader(t, tt.doc)

			var err error
			for i := 0; i < tt.reads && err == nil; i++ {
				_, err = r.Read()
			}
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, 1, syntaxErr.Line)
		})
	}
}

func TestRead_TrailingCommasOption(t *testing.T) {
	r := newTestReader(t, `{"a":[1,],}`, WithTrailingCommas())

	want := []TokenType{PropertyName, StartArray, Number, EndArray, EndObject}
	for _, tt := range want {
		mustRead(t, r)
		assert.Equal(t, tt, r.TokenType())
	}
}

func TestRead_LineAndColumn(t *testing.T) {
	r := newTestReader(t, "{\n  \"a\": \"b\",\n  \"c\": [1, 2]\n}")

	mustRead(t, r)
	mustRead(t, r)
	assert.Equal(t, 2, r.Line())
	assert.Equal(t, 10, r.Column())

	mustRead(t, r)
	assert.Equal(t, 3, r.Line())
	assert.Equal(t, 5, r.Column())
}

func TestRead_Depth(t *testing.T) {
	r := newTestReader(t, smallJSON)

	assert.Equal(t, 0, r.Depth())
	mustRead(t, r)
	assert.Equal(t, 1, r.Depth())
	mustRead(t, r)
	assert.Equal(t, 1, r.Depth())
	mustRead(t, r)
	assert.Equal(t, 2, r.Depth())
}

func TestRead_RefillWithoutGrowing(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := mocks.NewMockBufferPool(ctrl)
	pool.EXPECT().Rent(1024).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Return(gomock.Len(1024)).Times(1)

	x := strings.Repeat("x", 600)
	y := strings.Repeat("y", 600)
	r, err := NewReader(strings.NewReader(`{"a":"`+x+`","b":"`+y+`"}`), WithPool(pool))
	require.NoError(t, err)
	assert.False(t, r.IsFinalBlock())

	mustRead(t, r)
	mustRead(t, r)
	assert.Equal(t, x, r.GetString())
	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("b"))
	mustRead(t, r)
	assert.Equal(t, y, r.GetString())
	assert.True(t, r.IsFinalBlock())
	mustRead(t, r)
	assert.Equal(t, EndObject, r.TokenType())

	require.NoError(t, r.Close())
}

func TestRead_GrowsForLargeToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := mocks.NewMockBufferPool(ctrl)
	pool.EXPECT().Rent(1024).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Rent(2048).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Return(gomock.Len(1024)).Times(1)
	pool.EXPECT().Return(gomock.Len(2048)).Times(1)

	var grown []int
	large := strings.Repeat("a", 1500)
	r, err := NewReader(strings.NewReader(`{"large":"`+large+`"}`),
		WithPool(pool),
		WithGrowHook(func(size int) { grown = append(grown, size) }))
	require.NoError(t, err)

	mustRead(t, r)
	mustRead(t, r)
	assert.Equal(t, String, r.TokenType())
	assert.Equal(t, large, r.GetString())
	assert.Equal(t, 2048, r.BufferSize())
	assert.Equal(t, []int{2048}, grown)

	mustRead(t, r)
	ok, err := r.Read()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Close())
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := mocks.NewMockBufferPool(ctrl)
	pool.EXPECT().Rent(1024).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Return(gomock.Any()).Times(1)

	r, err := NewReader(strings.NewReader(smallJSON), WithPool(pool))
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Read()
	assert.ErrorIs(t, err, ErrReaderClosed)
	assert.ErrorIs(t, r.Skip(), ErrReaderClosed)
	assert.False(t, r.TrySkip())
}

func TestSkip(t *testing.T) {
	t.Run("root object", func(t *testing.T) {
		r := newTestReader(t, smallJSON)

		require.NoError(t, r.Skip())
		assert.Equal(t, EndObject, r.TokenType())
		ok, err := r.Read()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("property value", func(t *testing.T) {
		r := newTestReader(t, `{"object1":{"a":[1,{"b":2}]},"object2":"x"}`)

		mustRead(t, r)
		require.NoError(t, r.Skip())
		assert.Equal(t, EndObject, r.TokenType())
		mustRead(t, r)
		assert.True(t, r.ValueTextEquals("object2"))
	})

	t.Run("scalar stays put", func(t *testing.T) {
		r := newTestReader(t, `{"a":1,"b":2}`)

		mustRead(t, r)
		mustRead(t, r)
		require.NoError(t, r.Skip())
		assert.Equal(t, Number, r.TokenType())
		mustRead(t, r)
		assert.True(t, r.ValueTextEquals("b"))
	})
}

func TestSkip_Malformed(t *testing.T) {
	docs := []string{
		`{"object1": { "a":"asdad" }`,
		`{"object1": { "a":"asdad }}`,
		`{"object1":  "a":"asdad" }}`,
	}

	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			r := newTestReader(t, doc)

			err := r.Skip()
			var syntaxErr *SyntaxError
			assert.True(t, errors.As(err, &syntaxErr), "got %v", err)
		})
	}
}

func TestSkip_RefillWithoutGrowing(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := mocks.NewMockBufferPool(ctrl)
	pool.EXPECT().Rent(1024).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Return(gomock.Len(1024)).Times(1)

	doc := `{"object1":{"a":"` + strings.Repeat("z", 500) + `"},"object2":{"b":"` +
		strings.Repeat("w", 500) + `"},"object3":1}`
	r, err := NewReader(strings.NewReader(doc), WithPool(pool))
	require.NoError(t, err)

	mustRead(t, r)
	require.NoError(t, r.Skip())
	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("object2"))
	require.NoError(t, r.Skip())
	assert.Equal(t, EndObject, r.TokenType())
	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("object3"))

	require.NoError(t, r.Close())
}

func TestSkip_GrowsForLargeSubtree(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := mocks.NewMockBufferPool(ctrl)
	pool.EXPECT().Rent(1024).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Rent(2048).DoAndReturn(rentMake).Times(1)
	pool.EXPECT().Return(gomock.Len(1024)).Times(1)
	pool.EXPECT().Return(gomock.Len(2048)).Times(1)

	doc := `{"object1":{"a":"` + strings.Repeat("z", 1200) + `"},"object2":1}`
	r, err := NewReader(strings.NewReader(doc), WithPool(pool))
	require.NoError(t, err)

	mustRead(t, r)
	require.NoError(t, r.Skip())
	assert.Equal(t, EndObject, r.TokenType())
	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("object2"))

	require.NoError(t, r.Close())
}

func TestTrySkip_IncompleteBuffer(t *testing.T) {
	doc := `{"object1":{"a":"` + strings.Repeat("z", 1200) + `"}}`
	r := newTestReader(t, doc)

	mustRead(t, r)
	assert.False(t, r.TrySkip())
	assert.Equal(t, PropertyName, r.TokenType())
	require.NoError(t, r.Skip())
	assert.Equal(t, EndObject, r.TokenType())
}

func TestValueTextEquals_EmptyName(t *testing.T) {
	r := newTestReader(t, `{"":"value"}`)

	mustRead(t, r)
	assert.True(t, r.ValueTextEquals(""))
	mustRead(t, r)
	assert.True(t, r.ValueTextEquals("value"))
	assert.False(t, r.ValueTextEquals("other"))
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "StartObject", StartObject.String())
	assert.Equal(t, "TokenType(99)", TokenType(99).String())
}
