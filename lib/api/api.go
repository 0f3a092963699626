package api

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

const allowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": allowHeaders,
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

// SuccessResponse creates a successful API Gateway response
func SuccessResponse(statusCode int, data interface{}, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal response data")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

// ErrorResponse creates an error API Gateway response
func ErrorResponse(statusCode int, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	errorData := map[string]interface{}{
		"error":   true,
		"message": message,
		"status":  statusCode,
	}

	body, err := json.Marshal(errorData)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal error response")
		body = []byte(`{"error":true,"message":"Internal server error","status":500}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

// OutcomeErrorResponse reports a failed workflow run with its terminal outcome
// but without the internal diagnostics
func OutcomeErrorResponse(statusCode int, outcome, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	errorData := map[string]interface{}{
		"error":   true,
		"message": message,
		"outcome": outcome,
		"status":  statusCode,
	}

	body, err := json.Marshal(errorData)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal outcome response")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; max-width: 560px; margin: 40px auto;">
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
</body>
</html>`))

// HTMLResponse renders a minimal page for links opened from an email or text message
func HTMLResponse(statusCode int, title, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	var page strings.Builder
	if err := pageTemplate.Execute(&page, struct{ Title, Message string }{title, message}); err != nil {
		logger.WithError(err).Error("Failed to render page")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       "Internal server error",
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       page.String(),
		Headers: map[string]string{
			"Content-Type":  "text/html; charset=utf-8",
			"Cache-Control": "no-store",
		},
	}
}
