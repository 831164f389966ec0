package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RespondError(t *testing.T) {
	// given
	rr := httptest.NewRecorder()

	// when
	RespondError(rr, discardLogger, http.StatusNotFound, "not found")

	// then
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, ContentTypeJSON, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())
}

func Test_ParseIntID(t *testing.T) {
	testCases := []struct {
		name         string
		pathID       string
		expectedID   int
		expectedOK   bool
		expectedBody string
	}{
		{name: "valid id", pathID: "12", expectedID: 12, expectedOK: true},
		{name: "negative id is parsed", pathID: "-1", expectedID: -1, expectedOK: true},
		{name: "not a number", pathID: "abc", expectedBody: `{"error":"invalid product id: abc"}`},
		{name: "empty", pathID: "", expectedBody: `{"error":"invalid product id: "}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/productos/x", nil)
			req.SetPathValue("id", tc.pathID)
			rr := httptest.NewRecorder()

			// when
			id, ok := ParseIntID(rr, req, discardLogger)

			// then
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedID, id)
			if !tc.expectedOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}
