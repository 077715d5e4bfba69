package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the SDK config with the region taken from AWS_REGION.
// AWS_ENDPOINT_OVERRIDE (e.g. a local DynamoDB endpoint) is applied at client
// construction, not here.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1" // default fallback
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}

// EndpointOverride returns the configured store endpoint override, empty when unset.
func EndpointOverride() string {
	return os.Getenv("AWS_ENDPOINT_OVERRIDE")
}
