package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"contractormatching/lib/api"
	"contractormatching/lib/data"
	"contractormatching/lib/models"
	"contractormatching/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

const invalidLinkMessage = "This link is invalid or has expired."

// tokenVerifier checks a signed accept/decline link
type tokenVerifier interface {
	VerifyAction(token string, action models.JobAction) (*models.ActionTokenPayload, bool)
}

// statusUpdater records a contractor's answer
type statusUpdater interface {
	UpdateMatchRequestStatus(ctx context.Context, projectID, contractorID string, status models.MatchRequestStatus) (*models.MatchRequest, error)
}

var (
	logger                 *logrus.Logger
	tokens                 tokenVerifier
	matchRequestRepository statusUpdater
)

var routes = map[string]models.JobAction{
	"/accept-job/{token}":  models.JobActionAccept,
	"/decline-job/{token}": models.JobActionDecline,
}

// Handler processes the links embedded in invitations. The token is the only credential.
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	action, ok := routes[request.Resource]
	if !ok || request.HTTPMethod != http.MethodGet {
		logger.WithFields(logrus.Fields{
			"method":    request.HTTPMethod,
			"resource":  request.Resource,
			"operation": "Handler",
		}).Warn("Endpoint not found")
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil
	}

	return handleJobResponse(ctx, request, action)
}

func handleJobResponse(ctx context.Context, request events.APIGatewayProxyRequest, action models.JobAction) (events.APIGatewayProxyResponse, error) {
	rawToken := request.PathParameters["token"]
	wantsJSON := strings.Contains(request.Headers["accept"]+request.Headers["Accept"], "application/json")

	payload, ok := tokens.VerifyAction(rawToken, action)
	if !ok {
		logger.WithFields(logrus.Fields{
			"action":    action,
			"token":     util.RedactToken(rawToken),
			"operation": "handleJobResponse",
		}).Warn("Rejected job response link")
		return respond(wantsJSON, http.StatusBadRequest, models.JobResponseResult{Message: invalidLinkMessage}), nil
	}

	log := logger.WithFields(logrus.Fields{
		"project_id":    payload.ProjectID,
		"contractor_id": payload.ContractorID,
		"action":        action,
		"operation":     "handleJobResponse",
	})

	updated, err := matchRequestRepository.UpdateMatchRequestStatus(ctx, payload.ProjectID, payload.ContractorID, action.ResultingStatus())
	if errors.Is(err, data.ErrNotFound) {
		log.Warn("No match request for a valid token")
		return respond(wantsJSON, http.StatusNotFound, models.JobResponseResult{Message: "This invitation is no longer available."}), nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to record job response")
		return respond(wantsJSON, http.StatusInternalServerError, models.JobResponseResult{Message: "We could not record your response. Please try again."}), nil
	}

	log.Info("Recorded job response")
	return respond(wantsJSON, http.StatusOK, models.JobResponseResult{
		Success:   true,
		Message:   util.ConditionalString(action == models.JobActionAccept, "Thanks, the job is yours. The homeowner will be in touch.", "Thanks for letting us know. We will offer the job to another contractor."),
		ProjectID: updated.ProjectID,
		Status:    updated.Status,
	}), nil
}

func respond(wantsJSON bool, statusCode int, result models.JobResponseResult) events.APIGatewayProxyResponse {
	if wantsJSON {
		if result.Success {
			return api.SuccessResponse(statusCode, result, logger)
		}
		return api.ErrorResponse(statusCode, result.Message, logger)
	}

	title := "Response recorded"
	if !result.Success {
		title = "Unable to record response"
	}
	return api.HTMLResponse(statusCode, title, result.Message, logger)
}
