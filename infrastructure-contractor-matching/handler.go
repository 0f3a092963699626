package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"contractormatching/lib/api"
	"contractormatching/lib/auth"
	"contractormatching/lib/clients"
	"contractormatching/lib/config"
	"contractormatching/lib/data"
	"contractormatching/lib/models"
	"contractormatching/lib/notification"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
)

// workflowRunner runs one matching pass for a project
type workflowRunner interface {
	Run(ctx context.Context, project models.Project) *models.WorkflowResult
}

// matchRequestReader lists the invitations already sent for a project
type matchRequestReader interface {
	GetMatchRequestsByProject(ctx context.Context, projectID string) ([]models.MatchRequest, error)
}

var (
	logger                 *logrus.Logger
	isLocal                bool
	projectRepository      data.ProjectRepository
	matchRequestRepository matchRequestReader
	runner                 workflowRunner
)

// Handler processes the operator matching endpoints
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"method":      request.HTTPMethod,
		"resource":    request.Resource,
		"path_params": request.PathParameters,
		"operation":   "Handler",
	}).Debug("Processing contractor matching request")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err.Error(),
			"operation": "Handler",
		}).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	logger.WithFields(logrus.Fields{
		"claims":    claims.ToJSON(),
		"operation": "Handler",
	}).Debug("Operator authenticated successfully")

	switch {
	case request.Resource == "/projects/{projectId}/match" && request.HTTPMethod == http.MethodPost:
		return handleMatchProject(ctx, request, claims)
	case request.Resource == "/projects/{projectId}/match-requests" && request.HTTPMethod == http.MethodGet:
		return handleGetMatchRequests(ctx, request)
	default:
		logger.WithFields(logrus.Fields{
			"method":    request.HTTPMethod,
			"resource":  request.Resource,
			"operation": "Handler",
		}).Warn("Endpoint not found")
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", logger), nil
	}
}

func handleMatchProject(ctx context.Context, request events.APIGatewayProxyRequest, claims *auth.Claims) (events.APIGatewayProxyResponse, error) {
	projectID := strings.TrimSpace(request.PathParameters["projectId"])
	if projectID == "" {
		return api.ErrorResponse(http.StatusBadRequest, "Project id is required", logger), nil
	}

	project, err := projectRepository.GetProjectByID(ctx, projectID)
	if errors.Is(err, data.ErrNotFound) {
		return api.ErrorResponse(http.StatusNotFound, "Project not found", logger), nil
	}
	if err != nil {
		logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"operation":  "handleMatchProject",
			"error":      err.Error(),
		}).Error("Failed to load project")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to load project", logger), nil
	}

	result := runner.Run(ctx, *project)

	logger.WithFields(logrus.Fields{
		"project_id":  projectID,
		"operator_id": claims.OperatorID,
		"run_id":      result.RunID,
		"outcome":     result.Outcome,
		"operation":   "handleMatchProject",
	}).Info("Matching workflow finished")

	if !result.Success {
		return api.OutcomeErrorResponse(http.StatusUnprocessableEntity, string(result.Outcome), failureMessage(result.Outcome), logger), nil
	}

	return api.SuccessResponse(http.StatusOK, models.ProjectMatchResponse{
		Success: true,
		Message: "Contractors matched",
		Result:  result,
	}, logger), nil
}

// handleGetMatchRequests handles GET /projects/{projectId}/match-requests
func handleGetMatchRequests(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	projectID := strings.TrimSpace(request.PathParameters["projectId"])
	if projectID == "" {
		return api.ErrorResponse(http.StatusBadRequest, "Project id is required", logger), nil
	}

	requests, err := matchRequestRepository.GetMatchRequestsByProject(ctx, projectID)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"project_id": projectID,
			"operation":  "handleGetMatchRequests",
			"error":      err.Error(),
		}).Error("Failed to get match requests")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to get match requests", logger), nil
	}

	return api.SuccessResponse(http.StatusOK, requests, logger), nil
}

func failureMessage(outcome models.WorkflowOutcome) string {
	switch outcome {
	case models.OutcomeFailedNoContractors:
		return "No contractors are currently available"
	case models.OutcomeFailedNoMatch:
		return "No contractors could be matched to this project"
	default:
		return "Matching could not be completed"
	}
}

// newDispatcher picks live or simulated transports and the optional archive
func newDispatcher(cfg *config.Config, awsConfig aws.Config) *notification.Dispatcher {
	var (
		email notification.EmailTransport
		sms   notification.SMSTransport
	)
	if cfg.Simulated() {
		simulated := &notification.SimulatedTransport{Logger: logger}
		email, sms = simulated, simulated
	} else {
		email = clients.NewSESClient(awsConfig, cfg.EmailFrom)
		sms = clients.NewSNSClient(awsConfig, cfg.SMSSenderID)
	}

	emailChannel := &notification.EmailChannel{Transport: email, Logger: logger}
	if cfg.InvitationBucket != "" {
		emailChannel.Archiver = &notification.S3Archiver{
			Uploader: clients.NewS3Client(awsConfig, isLocal, cfg.InvitationBucket),
		}
	}

	return notification.NewDispatcher(logger,
		emailChannel,
		&notification.SMSChannel{Transport: sms, Logger: logger},
	)
}
