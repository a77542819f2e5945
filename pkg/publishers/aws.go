package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// fifoGroupID orders all events of this client in one FIFO message group.
const fifoGroupID = "giftery-orders"

// loadAWSConfig resolves the SDK config for region, pinning static
// credentials when they are configured.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// stringAttributes converts event attributes to the shape shared by SQS and SNS.
func stringAttributes[T any](attrs map[string]string, build func(dataType, value *string) T) map[string]T {
	out := make(map[string]T, len(attrs))
	for k, v := range attrs {
		out[k] = build(aws.String("String"), aws.String(v))
	}
	return out
}

// isFIFO reports whether a queue URL or topic ARN names a FIFO resource.
// Those require a group id and accept the external id as dedup id, so a
// re-published order is dropped by AWS within the dedup window.
func isFIFO(target string) bool {
	return strings.HasSuffix(target, ".fifo")
}

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher sends order events to an SQS queue.
type sqsPublisher struct {
	id       string
	queueURL string
	client   sqsClient
	log      Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, err
	}
	return &sqsPublisher{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := evt.marshal()
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: stringAttributes(evt.attributes(), func(dataType, value *string) sqstypes.MessageAttributeValue {
			return sqstypes.MessageAttributeValue{DataType: dataType, StringValue: value}
		}),
	}
	if isFIFO(s.queueURL) {
		input.MessageGroupId = aws.String(fifoGroupID)
		input.MessageDeduplicationId = aws.String(evt.DedupKey())
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("order event queued", "publisher_delivery", map[string]any{
		"publisher_id": s.id,
		"message_id":   aws.ToString(out.MessageId),
		"dedup_key":    evt.DedupKey(),
	})
	return nil
}

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher sends order events to an SNS topic.
type snsPublisher struct {
	id       string
	topicARN string
	client   snsClient
	log      Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.Credentials)
	if err != nil {
		return nil, err
	}
	return &snsPublisher{
		id:       cfg.ID,
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *snsPublisher) ID() string   { return s.id }
func (s *snsPublisher) Type() string { return TypeSNS }

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := evt.marshal()
	if err != nil {
		return err
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		Subject:  aws.String(evt.Type),
		MessageAttributes: stringAttributes(evt.attributes(), func(dataType, value *string) snstypes.MessageAttributeValue {
			return snstypes.MessageAttributeValue{DataType: dataType, StringValue: value}
		}),
	}
	if isFIFO(s.topicARN) {
		input.MessageGroupId = aws.String(fifoGroupID)
		input.MessageDeduplicationId = aws.String(evt.DedupKey())
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("order event published", "publisher_delivery", map[string]any{
		"publisher_id": s.id,
		"message_id":   aws.ToString(out.MessageId),
		"dedup_key":    evt.DedupKey(),
	})
	return nil
}
