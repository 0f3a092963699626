package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"contractormatching/lib/clients"
	"contractormatching/lib/config"
	"contractormatching/lib/constants"
	"contractormatching/lib/data"
	"contractormatching/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var (
	logger         *logrus.Logger
	allowedOrigins []string
)

func handler(request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestOrigin := headerValue(request.Headers, "origin")
	if requestOrigin == "" {
		logger.WithField("operation", "handler").Warn("origin is not present in the request headers")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
		}, nil
	}

	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || strings.EqualFold(allowedOrigin, requestOrigin) {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers: map[string]string{
					"Access-Control-Allow-Origin":      requestOrigin,
					"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
					"Access-Control-Allow-Methods":     "GET, POST, OPTIONS",
					"Access-Control-Allow-Credentials": "true",
					"Vary":                             "Origin",
				},
			}, nil
		}
	}

	logger.WithFields(logrus.Fields{
		"origin":    requestOrigin,
		"operation": "handler",
	}).Warn("unauthorized origin from request header")

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusForbidden,
	}, nil
}

func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func main() {
	coldStart()
	lambda.Start(handler)
}

func coldStart() {
	ctx := context.Background()
	isLocal, _ := strconv.ParseBool(os.Getenv("IS_LOCAL"))
	logger = util.NewLogger(os.Getenv("LOG_LEVEL"), isLocal)

	awsConfig, err := clients.LoadAWSConfig(ctx, isLocal)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Fatal("Error loading AWS configuration")
	}

	ssmRepository := &data.SSMDao{
		SSM:    clients.NewSSMClient(awsConfig),
		Logger: logger,
	}
	ssmParams, err := ssmRepository.GetParameters(ctx)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Fatal("Error while getting ssm params from param store")
	}

	allowedOrigins = config.ParseOrigins(ssmParams[constants.ALLOWED_ORIGINS])
	logger.WithField("allowed_origins", allowedOrigins).Debug("CORS origins loaded")
}
