package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JSONField_Decode(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectPresent bool
		expectNull    bool
		expectString  string
		expectIsStr   bool
		expectNumber  float64
		expectIsNum   bool
	}{
		{name: "omitted", body: `{}`},
		{name: "null", body: `{"precio":null}`, expectPresent: true, expectNull: true},
		{name: "string", body: `{"precio":"Mouse"}`, expectPresent: true, expectString: "Mouse", expectIsStr: true},
		{name: "integer", body: `{"precio":50}`, expectPresent: true, expectNumber: 50, expectIsNum: true},
		{name: "decimal", body: `{"precio":-12.5}`, expectPresent: true, expectNumber: -12.5, expectIsNum: true},
		{name: "numeric string is not a number", body: `{"precio":"50"}`, expectPresent: true, expectString: "50", expectIsStr: true},
		{name: "boolean", body: `{"precio":true}`, expectPresent: true},
		{name: "object", body: `{"precio":{"v":1}}`, expectPresent: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var dto struct {
				Field JSONField `json:"precio"`
			}
			// when
			err := json.Unmarshal([]byte(tc.body), &dto)
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectPresent, dto.Field.Present())
			assert.Equal(t, tc.expectNull, dto.Field.IsNull())
			s, isStr := dto.Field.AsString()
			assert.Equal(t, tc.expectIsStr, isStr)
			assert.Equal(t, tc.expectString, s)
			n, isNum := dto.Field.AsNumber()
			assert.Equal(t, tc.expectIsNum, isNum)
			assert.Equal(t, tc.expectNumber, n)
		})
	}
}

func Test_JSONField_Marshal(t *testing.T) {
	dto := ProductFieldsDto{Name: NewJSONField(`"Mouse"`)}

	data, err := json.Marshal(dto)

	require.NoError(t, err)
	assert.JSONEq(t, `{"nombre":"Mouse","precio":null}`, string(data))
}
