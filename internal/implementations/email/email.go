package email

import (
	"context"
	"inboxflow/internal/core/domain/notification"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESGateway delivers notifications with Amazon SES.
type SESGateway struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender string
}

func NewSESGateway(awsConfig aws.Config, sender string) *SESGateway {
	return &SESGateway{
		ses:    ses.NewFromConfig(awsConfig),
		sender: sender,
	}
}

func (g *SESGateway) Deliver(ctx context.Context, message notification.Message) error {
	body := &types.Body{
		Text: &types.Content{Data: aws.String(message.Text), Charset: aws.String(charset)},
	}
	if message.HTML != "" {
		body.Html = &types.Content{Data: aws.String(message.HTML), Charset: aws.String(charset)}
	}

	_, err := g.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(g.sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{string(message.To)},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(message.Subject), Charset: aws.String(charset)},
				Body:    body,
			},
		},
	)
	return err
}
