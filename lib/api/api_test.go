package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SuccessResponse(t *testing.T) {
	response := SuccessResponse(http.StatusOK, map[string]int{"matchedContractors": 3}, logrus.New())

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.JSONEq(t, `{"matchedContractors":3}`, response.Body)
	assert.Equal(t, "application/json", response.Headers["Content-Type"])
}

func Test_SuccessResponse_MarshalFailure(t *testing.T) {
	response := SuccessResponse(http.StatusOK, make(chan int), logrus.New())

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
}

func Test_OutcomeErrorResponse(t *testing.T) {
	response := OutcomeErrorResponse(http.StatusUnprocessableEntity, "failed-no-match", "No contractors could be matched", logrus.New())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)
	assert.Equal(t, "failed-no-match", body["outcome"])
	assert.Equal(t, true, body["error"])
}

func Test_HTMLResponse_EscapesMessage(t *testing.T) {
	response := HTMLResponse(http.StatusBadRequest, "Link expired", "<b>gone</b>", logrus.New())

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", response.Headers["Content-Type"])
	assert.Contains(t, response.Body, "<h1>Link expired</h1>")
	assert.Contains(t, response.Body, "&lt;b&gt;gone&lt;/b&gt;")
}
