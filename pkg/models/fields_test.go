package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_UnmarshalKeepsDocumentOrder(t *testing.T) {
	var fields Fields

	err := json.Unmarshal([]byte(`{"zeta":1,"alpha":"a","nested":{"x":true},"mid":null}`), &fields)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "nested", "mid"}, fields.Keys())

	value, ok := fields.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, float64(1), value)

	nested, ok := fields.Get("nested")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": true}, nested)
}

func TestFields_MarshalKeepsOrder(t *testing.T) {
	fields := Fields{
		{Key: "b", Value: "2"},
		{Key: "a", Value: 1},
	}

	data, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"2","a":1}`, string(data))
	assert.Equal(t, `{"b":"2","a":1}`, string(data))
}

func TestFields_NullAndInvalid(t *testing.T) {
	var fields Fields

	require.NoError(t, json.Unmarshal([]byte(`null`), &fields))
	assert.Nil(t, fields)

	err := json.Unmarshal([]byte(`["a"]`), &fields)
	require.Error(t, err)
}

func TestFieldsFromMap_SortsKeys(t *testing.T) {
	fields := FieldsFromMap(map[string]any{"c": 3, "a": 1, "b": 2})

	assert.Equal(t, []string{"a", "b", "c"}, fields.Keys())
	value, ok := fields.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, value)
}

func TestContact_DecodeFromUpstream(t *testing.T) {
	var resp UserResponse

	err := json.Unmarshal([]byte(`{"user":{"email":"a@example.com","dataFields":{"firstName":"Ann","email":"a@example.com"}}}`), &resp)
	require.NoError(t, err)
	require.True(t, resp.Found())
	assert.Equal(t, []string{"firstName", "email"}, resp.User.DataFields.Keys())

	var empty UserResponse
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.False(t, empty.Found())
}

func TestAuthMetadata_GetIsCaseInsensitive(t *testing.T) {
	auth := AuthMetadata{"apikey": "secret"}

	assert.Equal(t, "secret", auth.Get(AuthFieldAPIKey))
	assert.Equal(t, "", auth.Get("other"))
}

func TestRunStepResponse_Message(t *testing.T) {
	resp := RunStepResponse{MessageFormat: "Unknown step %s", MessageArgs: []any{"NotRealStep"}}
	assert.Equal(t, "Unknown step NotRealStep", resp.Message())

	plain := RunStepResponse{MessageFormat: "100% done"}
	assert.Equal(t, "100% done", plain.Message())
}
