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

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	coldStart()
	lambda.Start(Handler)
}

func coldStart() {
	ctx := context.Background()
	isLocal, _ := strconv.ParseBool(os.Getenv("IS_LOCAL"))
	logger = util.NewLogger(os.Getenv("LOG_LEVEL"), isLocal)

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

	tokens, err = token.NewService(cfg.TokenSecret)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error creating token service")
	}
	matchRequestRepository = data.NewMatchRequestRepository(sqlDB, logger)

	logger.WithField("operation", "init").Info("Job Response Lambda initialization completed successfully")
}
