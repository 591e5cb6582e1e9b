package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type codeRequest struct {
	Code string `json:"code" validate:"required,len=3"`
}

func (c *codeRequest) Normalize() {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
}

func Test_DecodeAndValidate_Normalizes(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedOK   bool
		expectedCode string
	}{
		{name: "Padded value is trimmed first", body: `{"code": "  abc  "}`, expectedOK: true, expectedCode: "ABC"},
		{name: "Blank value fails required", body: `{"code": "   "}`, expectedOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			var dst codeRequest

			// when
			ok := DecodeAndValidate(rr, req, slog.New(slog.NewTextHandler(io.Discard, nil)), validator.New(), &dst)

			// then
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.expectedCode, dst.Code)
			} else {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}
