package sqsgath

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func NewSqsGradeGatherer(sessionUuid string, queueUrl string) (*sqsGradeGatherer, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &sqsGradeGatherer{
		sqsClient:   sqs.NewFromConfig(cfg),
		queueUrl:    queueUrl,
		sessionUuid: sessionUuid,
	}, nil
}
