package jsonkit

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozyrev-dev/ordersvc/internal/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		original := models.User{ID: 7, Name: "Ada", Email: "ada@x.io"}

		encoded, err := json.Marshal(original)
		require.NoError(t, err)

		decoded, err := Decode[models.User](strings.NewReader(string(encoded)))
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("order", func(t *testing.T) {
		original := models.Order{ID: 3, Product: "Widget", UserID: 7}

		encoded, err := json.Marshal(original)
		require.NoError(t, err)

		decoded, err := Decode[models.Order](strings.NewReader(string(encoded)))
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})
}

func TestDecodeFailures(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "malformed JSON",
			body: `not json`,
		},
		{
			name: "empty body",
			body: ``,
		},
		{
			name: "missing required field",
			body: `{"email":"ada@x.io"}`,
		},
		{
			name: "wrong field type",
			body: `{"name":42}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Decode[models.User](strings.NewReader(testCase.body))
			assert.Error(t, err)
		})
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, models.User{ID: 1, Name: "Ada", Email: "ada@x.io"})
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1,"name":"Ada","email":"ada@x.io"}`, rec.Body.String())
}

func TestWriteTextOmitsContentTypeAndNewline(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteText(rec, 404, "User not found")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "User not found", rec.Body.String())
}
