package clients

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const charsetUTF8 = "UTF-8"

// SESAPI is the part of the SES v2 SDK client used to send mail
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient sends transactional email from a fixed sender address
type SESClient struct {
	svc  SESAPI
	from string
}

// NewSESClient creates an SES v2 email client
func NewSESClient(cfg aws.Config, from string) *SESClient {
	return NewSESClientWithAPI(sesv2.NewFromConfig(cfg), from)
}

// NewSESClientWithAPI wraps an existing SES API implementation
func NewSESClientWithAPI(svc SESAPI, from string) *SESClient {
	return &SESClient{svc: svc, from: from}
}

// SendEmail sends a multipart (HTML + text) message and returns the SES message id
func (client *SESClient) SendEmail(ctx context.Context, to, subject, html, text string) (string, error) {
	output, err := client.svc.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(client.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charsetUTF8)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String(charsetUTF8)},
					Text: &types.Content{Data: aws.String(text), Charset: aws.String(charsetUTF8)},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send failed: %w", err)
	}
	if output == nil || aws.ToString(output.MessageId) == "" {
		return "", fmt.Errorf("ses accepted no message")
	}
	return aws.ToString(output.MessageId), nil
}
