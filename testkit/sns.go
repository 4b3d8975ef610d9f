package testkit

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublishCall records one error notification.
type SNSPublishCall struct {
	TopicARN string
	Subject  string
	Message  string
}

// FakeSNSClient stands in for the SNS client behind synthesis error notifications.
type FakeSNSClient struct {
	mu sync.Mutex

	calls      []SNSPublishCall
	PublishErr error
	nextID     int
}

func NewFakeSNSClient() *FakeSNSClient {
	return &FakeSNSClient{nextID: 1}
}

func (f *FakeSNSClient) Publish(
	_ context.Context,
	params *sns.PublishInput,
	_ ...func(*sns.Options),
) (*sns.PublishOutput, error) {
	if f == nil {
		return nil, errors.New("testkit: sns client is nil")
	}
	if params == nil {
		return nil, errors.New("testkit: publish input is nil")
	}

	topicARN := strings.TrimSpace(aws.ToString(params.TopicArn))
	if topicARN == "" {
		return nil, errors.New("testkit: topic arn is empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, SNSPublishCall{
		TopicARN: topicARN,
		Subject:  aws.ToString(params.Subject),
		Message:  aws.ToString(params.Message),
	})
	if f.PublishErr != nil {
		return nil, f.PublishErr
	}
	id := f.nextID
	f.nextID++
	return &sns.PublishOutput{MessageId: aws.String("msg-" + strconv.Itoa(id))}, nil
}

// Calls returns a copy of every publish attempt, including failed ones.
func (f *FakeSNSClient) Calls() []SNSPublishCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SNSPublishCall, len(f.calls))
	copy(out, f.calls)
	return out
}
