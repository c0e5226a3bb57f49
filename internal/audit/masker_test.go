package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSensitiveField(t *testing.T) {
	testCases := []struct {
		name      string
		field     string
		sensitive bool
	}{
		{"Password", "password", true},
		{"Mixed case", "userPassword", true},
		{"Hash suffix", "password_hash", true},
		{"Secret", "clientSecret", true},
		{"Token", "refresh_token", true},
		{"Webhook", "dingtalk_webhook", true},
		{"AppKey", "appKey", true},
		{"Plain name", "name", false},
		{"Username", "username", false},
		{"Department", "department", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.sensitive, IsSensitiveField(tc.field))
		})
	}
}

func TestMaskValueNestedObjects(t *testing.T) {
	in := map[string]any{
		"name": "Alice",
		"credentials": map[string]any{
			"password": "hunter2",
			"config": map[string]any{
				"api_token": "abc123",
				"endpoint":  "https://example.com",
			},
		},
	}

	out := MaskValue(in).(map[string]any)

	creds := out["credentials"].(map[string]any)
	cfg := creds["config"].(map[string]any)
	assert.Equal(t, "Alice", out["name"])
	assert.Equal(t, "***", creds["password"])
	assert.Equal(t, "***", cfg["api_token"])
	assert.Equal(t, "https://example.com", cfg["endpoint"])

	// Input must not be mutated.
	assert.Equal(t, "hunter2", in["credentials"].(map[string]any)["password"])
}

func TestMaskValueArrays(t *testing.T) {
	in := []any{
		map[string]any{"username": "alice", "password": "a"},
		map[string]any{"username": "bob", "password": "b"},
	}

	out := MaskValue(in).([]any)

	for _, item := range out {
		obj := item.(map[string]any)
		assert.Equal(t, "***", obj["password"])
		assert.NotEqual(t, "***", obj["username"])
	}
}

func TestMaskValueFalsyValuesUntouched(t *testing.T) {
	in := map[string]any{
		"password":  "",
		"token":     nil,
		"secretNum": float64(0),
		"secretOn":  false,
	}

	out := MaskValue(in).(map[string]any)

	assert.Equal(t, "", out["password"])
	assert.Nil(t, out["token"])
	assert.Equal(t, float64(0), out["secretNum"])
	assert.Equal(t, false, out["secretOn"])
}

func TestMaskValueScalarPassthrough(t *testing.T) {
	assert.Equal(t, "hello", MaskValue("hello"))
	assert.Equal(t, float64(42), MaskValue(float64(42)))
	assert.Nil(t, MaskValue(nil))
}

func TestMaskJSONBody(t *testing.T) {
	body := []byte(`{"username":"alice","password":"hunter2"}`)

	masked := MaskJSONBody(body)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(masked, &obj))
	assert.Equal(t, "alice", obj["username"])
	assert.Equal(t, "***", obj["password"])
}

func TestMaskJSONBodyNonJSON(t *testing.T) {
	body := []byte("not json at all")

	assert.Equal(t, body, MaskJSONBody(body))
	assert.Empty(t, MaskJSONBody(nil))
}
