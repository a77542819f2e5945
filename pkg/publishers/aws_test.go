package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/giftery-client/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func testEvent() Event {
	return NewOrderPlacedEvent(domain.PlacedOrder{OrderID: 10, ExternalID: "ext-10", ProductID: 4, Face: 1000})
}

func TestSQSPublisherSendSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      discardLogger{},
	}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["external_id"]
	if !ok || aws.ToString(attr.StringValue) != "ext-10" {
		t.Fatalf("external_id attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"order_id":10`) {
		t.Fatalf("MessageBody missing order_id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      discardLogger{},
	}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSNSPublisherSendSuccess(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::orders",
		client:   client,
		log:      discardLogger{},
	}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::orders" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["event_type"]
	if !ok || aws.ToString(attr.StringValue) != EventOrderPlaced {
		t.Fatalf("event_type attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"external_id":"ext-10"`) {
		t.Fatalf("Message missing external_id: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSPublisherSendError(t *testing.T) {
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::orders",
		client:   &fakeSNSClient{err: errors.New("boom")},
		log:      discardLogger{},
	}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestFIFOTargetsCarryDedupID(t *testing.T) {
	sqsFake := &fakeSQSClient{}
	queue := &sqsPublisher{id: "q", queueURL: "https://sqs.eu-west-1.amazonaws.com/1/orders.fifo", client: sqsFake, log: discardLogger{}}
	snsFake := &fakeSNSClient{}
	topic := &snsPublisher{id: "t", topicARN: "arn:aws:sns:eu-west-1:1:orders.fifo", client: snsFake, log: discardLogger{}}

	evt := testEvent()
	if err := queue.Publish(context.Background(), evt); err != nil {
		t.Fatalf("sqs Publish: %v", err)
	}
	if err := topic.Publish(context.Background(), evt); err != nil {
		t.Fatalf("sns Publish: %v", err)
	}

	if aws.ToString(sqsFake.input.MessageDeduplicationId) != "ext-10" || aws.ToString(sqsFake.input.MessageGroupId) != fifoGroupID {
		t.Fatalf("sqs fifo fields not set: %+v", sqsFake.input)
	}
	if aws.ToString(snsFake.input.MessageDeduplicationId) != "ext-10" || aws.ToString(snsFake.input.MessageGroupId) != fifoGroupID {
		t.Fatalf("sns fifo fields not set: %+v", snsFake.input)
	}
}

func TestStandardQueueHasNoDedupID(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "q", queueURL: "https://example.com/queue", client: client, log: discardLogger{}}
	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if client.input.MessageDeduplicationId != nil || client.input.MessageGroupId != nil {
		t.Fatalf("standard queue must not carry fifo fields")
	}
	if aws.ToString(client.input.MessageAttributes["order_id"].StringValue) != "10" {
		t.Fatalf("order_id attribute missing")
	}
}

func TestEventDedupKeyFallsBackToOrderID(t *testing.T) {
	evt := NewOrderPlacedEvent(domain.PlacedOrder{OrderID: 31})
	if got := evt.DedupKey(); got != "order-31" {
		t.Fatalf("DedupKey = %q", got)
	}
}

func TestNewSQSPublisherUsesStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "queue",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL: "https://sqs.eu-west-1.amazonaws.com/123/orders",
			Region:   "eu-west-1",
			Credentials: &AWSCredentials{
				AccessKeyID:     "AKIDEXAMPLE",
				SecretAccessKey: "secret",
			},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.Type() != TypeSQS || pub.ID() != "queue" {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}
}
