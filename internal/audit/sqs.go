package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/gantryhq/gantry/pkg/types"
)

// SQSAPI is the subset of the SQS client used by SQSObserver.
type SQSAPI interface {
	SendMessage(ctx context.Context, input *sqs.SendMessageInput, opts ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSObserver publishes audit events to an SQS queue for downstream
// consumers. Delivery failures are logged, never surfaced to the core.
type SQSObserver struct {
	client   SQSAPI
	queueURL string
	logger   *slog.Logger
}

// SQSObserverOption configures an SQSObserver.
type SQSObserverOption func(*SQSObserver)

// WithSQSClient sets a custom SQS client (useful for testing).
func WithSQSClient(c SQSAPI) SQSObserverOption {
	return func(o *SQSObserver) { o.client = c }
}

// NewSQSObserver creates an SQS audit observer for the given queue URL.
func NewSQSObserver(ctx context.Context, queueURL string, opts ...SQSObserverOption) (*SQSObserver, error) {
	o := &SQSObserver{queueURL: queueURL, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		o.client = sqs.NewFromConfig(cfg)
	}
	return o, nil
}

// Name returns the observer identifier.
func (o *SQSObserver) Name() string { return "sqs" }

// Observe publishes the event as a JSON message.
func (o *SQSObserver) Observe(ctx context.Context, event types.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		o.logger.Warn("audit sqs marshal failed", "error", err)
		return
	}
	_, err = o.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(o.queueURL),
		MessageBody: aws.String(string(data)),
	})
	if err != nil {
		o.logger.Warn("audit sqs publish failed", "kind", event.Kind, "error", err)
	}
}
