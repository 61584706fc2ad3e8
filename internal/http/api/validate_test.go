package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
)

type voteBody struct {
	Value string `json:"value" validate:"required,oneof=APPROVE REJECT"`
	Note  string `json:"note" validate:"max=5"`
}

func TestValidator_Decode(t *testing.T) {
	v, err := api.NewValidator()
	require.NoError(t, err)

	decode := func(body string) (voteBody, error) {
		var dst voteBody

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		return dst, v.Decode(req, &dst)
	}

	t.Run("Valid", func(t *testing.T) {
		got, err := decode(`{"value":"APPROVE"}`)
		require.NoError(t, err)
		assert.Equal(t, "APPROVE", got.Value)
	})

	t.Run("FieldsUseJSONNames", func(t *testing.T) {
		_, err := decode(`{"value":"MAYBE","note":"too long"}`)

		var ve *api.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Fields, 2)
		assert.Contains(t, ve.Fields, "value")
		assert.Contains(t, ve.Fields, "note")
		assert.Contains(t, ve.Fields["value"], "APPROVE REJECT")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := decode(`{}`)

		var ve *api.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "value is a required field", ve.Fields["value"])
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := decode(`{"value":`)

		var ve *api.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "body")
	})
}
