package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/recruiter-gateway/internal/services"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind error
		want int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrAuthorizationRequired, http.StatusUnauthorized},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrUnavailable, http.StatusServiceUnavailable},
		{services.ErrCalendarOperation, http.StatusInternalServerError},
		{services.ErrInternal, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := &services.Error{Kind: tc.kind, Message: "m", Err: fmt.Errorf("cause")}
		assert.Equal(t, tc.want, statusFor(err), tc.kind.Error())
	}
}

func TestFlexID(t *testing.T) {
	var body struct {
		ID flexID `json:"id"`
	}
	for raw, want := range map[string]string{
		`{"id":42}`:     "42",
		`{"id":" 42 "}`: "42",
		`{"id":null}`:   "",
		`{}`:            "",
	} {
		body.ID = ""
		require.NoError(t, json.Unmarshal([]byte(raw), &body), raw)
		assert.Equal(t, want, string(body.ID), raw)
	}
	assert.Error(t, json.Unmarshal([]byte(`{"id":[1]}`), &body))
}

func TestScriptHash(t *testing.T) {
	// sha256("window.close();"), base64
	assert.Equal(t, 44, len(scriptHash(closePopupScript)))
	assert.Contains(t, closePopupCSP, "'sha256-"+scriptHash(closePopupScript)+"'")
}
