package data

import (
	"context"
	"fmt"

	"contractormatching/lib/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"
)

type SSMRepository interface {
	GetParameters(ctx context.Context) (map[string]string, error)
}

type SSMClientInterface interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

type SSMDao struct {
	SSM    SSMClientInterface
	Logger *logrus.Logger
	// Path defaults to constants.SSM_PATH
	Path string
}

// GetParameters loads every decrypted parameter under the service path, following pagination
func (client *SSMDao) GetParameters(ctx context.Context) (map[string]string, error) {
	path := client.Path
	if path == "" {
		path = constants.SSM_PATH
	}

	params := map[string]string{}
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	pages := 0
	for {
		output, err := client.SSM.GetParametersByPath(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to read parameters under %s: %w", path, err)
		}
		pages++

		for _, param := range output.Parameters {
			params[aws.ToString(param.Name)] = aws.ToString(param.Value)
		}

		if output.NextToken == nil {
			break
		}
		input.NextToken = output.NextToken
	}

	if client.Logger != nil {
		client.Logger.WithFields(logrus.Fields{
			"path":      path,
			"count":     len(params),
			"pages":     pages,
			"operation": "GetParameters",
		}).Debug("Loaded SSM parameters")
	}

	return params, nil
}
