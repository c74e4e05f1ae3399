// Package cloud builds the shared AWS configuration used by S3 storage and
// the SQS event publisher.
package cloud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type Options struct {
	Region string
	// Endpoint routes every AWS call to one URL, e.g. LocalStack.
	Endpoint string
}

// NewAWSConfig loads the default credential chain, or static test
// credentials when an endpoint override is set.
func NewAWSConfig(ctx context.Context, opts Options) (aws.Config, error) {
	if opts.Endpoint != "" {
		slog.InfoContext(ctx, "routing AWS calls to custom endpoint", "endpoint", opts.Endpoint)
		cfg, err := awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(opts.Region),
			awsConfig.WithBaseEndpoint(opts.Endpoint),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
		if err != nil {
			return aws.Config{}, fmt.Errorf("load aws config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(opts.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
