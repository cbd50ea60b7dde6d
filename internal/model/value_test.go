package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSONNaturalForms(t *testing.T) {
	cases := []struct {
		in   string
		want Value
		out  string
	}{
		{`"hi"`, StringValue("hi"), `"hi"`},
		{`3.5`, NumberValue(3.5), `3.5`},
		{`true`, BoolValue(true), `true`},
		{`["a","b"]`, ListValue("a", "b"), `["a","b"]`},
		{`[1,true]`, ListValue("1", "true"), `["1","true"]`},
		{`null`, StringValue(""), `""`},
	}
	for _, tc := range cases {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(tc.in), &v), tc.in)
		assert.Equal(t, tc.want, v, tc.in)

		data, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, tc.out, string(data), tc.in)
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "3", NumberValue(3).String())
	assert.Equal(t, "3.25", NumberValue(3.25).String())
	assert.Equal(t, "false", BoolValue(false).String())
	assert.Equal(t, "a,b", ListValue("a", "b").String())
	assert.Equal(t, "", StringValue("").String())
}

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, StringValue("").IsEmpty())
	assert.True(t, Value{}.IsEmpty())
	assert.False(t, StringValue("x").IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty())
	assert.False(t, BoolValue(false).IsEmpty())
	assert.False(t, ListValue().IsEmpty())
}

func TestValueCheckType(t *testing.T) {
	assert.Empty(t, StringValue("anything").CheckType(TypeString))
	assert.Empty(t, NumberValue(1).CheckType(TypeNumber))
	assert.NotEmpty(t, BoolValue(true).CheckType(TypeNumber))
	assert.NotEmpty(t, StringValue("nope").CheckType(TypeNumber))
	assert.Empty(t, StringValue("false").CheckType(TypeBoolean))
	assert.Empty(t, ListValue("a").CheckType(TypeArray))
	assert.Empty(t, StringValue("a,b").CheckType(TypeArray))
	assert.NotEmpty(t, NumberValue(1).CheckType(TypeArray))
}
