package clients

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the part of the SNS SDK client used to send text messages
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient sends transactional SMS directly to phone numbers
type SNSClient struct {
	svc      SNSAPI
	senderID string
}

// NewSNSClient creates an SNS SMS client; senderID may be empty
func NewSNSClient(cfg aws.Config, senderID string) *SNSClient {
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), senderID)
}

// NewSNSClientWithAPI wraps an existing SNS API implementation
func NewSNSClientWithAPI(svc SNSAPI, senderID string) *SNSClient {
	return &SNSClient{svc: svc, senderID: senderID}
}

// SendSMS publishes body to phoneNumber (E.164) and returns the SNS message id
func (client *SNSClient) SendSMS(ctx context.Context, phoneNumber, body string) (string, error) {
	attributes := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if client.senderID != "" {
		attributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(client.senderID),
		}
	}

	output, err := client.svc.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phoneNumber),
		Message:           aws.String(body),
		MessageAttributes: attributes,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish failed: %w", err)
	}
	if output == nil || aws.ToString(output.MessageId) == "" {
		return "", fmt.Errorf("sns accepted no message")
	}
	return aws.ToString(output.MessageId), nil
}
