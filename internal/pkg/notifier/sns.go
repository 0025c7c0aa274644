package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSConfig configures the SMS driver. Empty credentials fall back to the
// default AWS credential chain.
type SNSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Endpoint overrides the service URL, for LocalStack and similar.
	Endpoint string
	// SenderID is shown as the sender where carriers support it.
	SenderID string
}

// SNS texts the code to E.164 phone numbers.
type SNS struct {
	client   snsPublisher
	content  Content
	senderID string
}

func NewSNS(ctx context.Context, cfg SNSConfig, content Content) (*SNS, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("notifier: load aws config: %w", err)
	}

	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &SNS{client: client, content: content, senderID: cfg.SenderID}, nil
}

func (s *SNS) Send(ctx context.Context, subject, code string) (bool, error) {
	if !strings.HasPrefix(subject, "+") {
		return false, fmt.Errorf("%w: %s is not a phone number", ErrUnsupportedSubject, subject)
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(subject),
		Message:     aws.String(s.content.Short(code)),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(s.senderID)},
			"AWS.SNS.SMS.SMSType":  {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		}
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return false, fmt.Errorf("notifier: sns publish: %w", err)
	}

	return true, nil
}
