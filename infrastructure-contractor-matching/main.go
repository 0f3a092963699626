package main

import (
	"context"
	"os"
	"strconv"

	"contractormatching/lib/clients"
	"contractormatching/lib/config"
	"contractormatching/lib/data"
	"contractormatching/lib/token"
	"contractormatching/lib/util"
	"contractormatching/lib/workflow"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// main is the Lambda function entry point
func main() {
	coldStart()
	lambda.Start(Handler)
}

// coldStart wires the workflow once per container. Any configuration error is fatal.
func coldStart() {
	ctx := context.Background()
	isLocal, _ = strconv.ParseBool(os.Getenv("IS_LOCAL"))
	logger = util.NewLogger(os.Getenv("LOG_LEVEL"), isLocal)

	logger.WithField("operation", "init").Info("Initializing Contractor Matching Lambda")

	awsConfig, err := clients.LoadAWSConfig(ctx, isLocal)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error loading AWS configuration")
	}

	ssmRepository := &data.SSMDao{
		SSM:    clients.NewSSMClient(awsConfig),
		Logger: logger,
	}
	ssmParams, err := ssmRepository.GetParameters(ctx)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error while getting SSM params from parameter store")
	}

	cfg, err := config.Load(ssmParams)
	if err == nil {
		err = cfg.ValidateDelivery()
	}
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Invalid configuration")
	}

	sqlDB, err := clients.NewPostgresSQLClient(ctx, cfg.Database)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error setting up PostgreSQL client")
	}

	tokenService, err := token.NewService(cfg.TokenSecret)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error creating token service")
	}

	projectRepository = data.NewProjectRepository(sqlDB, logger)
	matchRequests := data.NewMatchRequestRepository(sqlDB, logger)
	matchRequestRepository = matchRequests
	runner = workflow.NewOrchestrator(workflow.Dependencies{
		Contractors: data.NewContractorRepository(sqlDB, logger),
		Matches:     matchRequests,
		Projects:    projectRepository,
		Tokens:      tokenService,
		Notifier:    newDispatcher(cfg, awsConfig),
	}, workflow.Settings{
		BaseURL:        cfg.BaseURL,
		MaxContractors: cfg.MaxContractors,
		SendInterval:   cfg.SendInterval,
	}, logger)

	logger.WithFields(logrus.Fields{
		"operation":       "init",
		"delivery_mode":   cfg.DeliveryMode,
		"max_contractors": cfg.MaxContractors,
		"archive_enabled": cfg.InvitationBucket != "",
	}).Info("Contractor Matching Lambda initialization completed successfully")
}
