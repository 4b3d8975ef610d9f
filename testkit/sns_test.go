package testkit

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/require"
)

const siteErrorsTopic = "arn:aws:sns:us-east-1:446708209687:site-errors"

func TestFakeSNSClient_Publish(t *testing.T) {
	var nilClient *FakeSNSClient
	_, err := nilClient.Publish(context.Background(), &sns.PublishInput{})
	require.Error(t, err)

	client := NewFakeSNSClient()
	_, err = client.Publish(context.Background(), nil)
	require.Error(t, err)
	_, err = client.Publish(context.Background(), &sns.PublishInput{TopicArn: aws.String(" ")})
	require.Error(t, err)

	out, err := client.Publish(context.Background(), &sns.PublishInput{
		TopicArn: aws.String(siteErrorsTopic),
		Subject:  aws.String("site synthesis error: LeafSucc"),
		Message:  aws.String(`{"message":"boom"}`),
	})
	require.NoError(t, err)
	require.Equal(t, "msg-1", aws.ToString(out.MessageId))
	require.Equal(t, []SNSPublishCall{{
		TopicARN: siteErrorsTopic,
		Subject:  "site synthesis error: LeafSucc",
		Message:  `{"message":"boom"}`,
	}}, client.Calls())
}

func TestFakeSNSClient_PublishErrStillRecords(t *testing.T) {
	client := NewFakeSNSClient()
	client.PublishErr = context.Canceled

	_, err := client.Publish(context.Background(), &sns.PublishInput{TopicArn: aws.String(siteErrorsTopic)})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, client.Calls(), 1)
}
