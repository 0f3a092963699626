package data

import (
	"context"
	"errors"
	"testing"

	"contractormatching/lib/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSSMClient struct {
	TestSuccess bool
	Paths       []string
	calls       int
}

func InitializeSSMClient(mock *MockSSMClient) SSMRepository {
	return &SSMDao{
		SSM:    mock,
		Logger: logrus.New(),
	}
}

// GetParametersByPath serves two pages so pagination is exercised
func (m *MockSSMClient) GetParametersByPath(ctx context.Context, input *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	m.Paths = append(m.Paths, aws.ToString(input.Path))
	if !m.TestSuccess {
		return nil, errors.New("error in GetParametersByPath")
	}

	m.calls++
	if m.calls == 1 {
		return &ssm.GetParametersByPathOutput{
			Parameters: []types.Parameter{
				{Name: aws.String(constants.ACTION_TOKEN_SECRET), Value: aws.String("s3cr3t")},
			},
			NextToken: aws.String("page-2"),
		}, nil
	}

	return &ssm.GetParametersByPathOutput{
		Parameters: []types.Parameter{
			{Name: aws.String(constants.APP_BASE_URL), Value: aws.String("https://claims.example.com")},
		},
	}, nil
}

func Test_GetParameters_Success(t *testing.T) {
	//Arrange
	mock := &MockSSMClient{TestSuccess: true}
	ssmRepository := InitializeSSMClient(mock)

	//Act
	actual, err := ssmRepository.GetParameters(context.Background())

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", actual[constants.ACTION_TOKEN_SECRET])
	assert.Equal(t, "https://claims.example.com", actual[constants.APP_BASE_URL])
	assert.Equal(t, []string{constants.SSM_PATH, constants.SSM_PATH}, mock.Paths)
}

func Test_GetParameters_Failure(t *testing.T) {
	//Arrange
	ssmRepository := InitializeSSMClient(&MockSSMClient{TestSuccess: false})

	//Act
	_, actual := ssmRepository.GetParameters(context.Background())

	//Assert
	require.Error(t, actual)
	assert.Contains(t, actual.Error(), "error in GetParametersByPath")
}
