package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/imrishuroy/trynex-storefront/internal/config"
)

// LoadAWSConfig resolves the SDK config for the given settings. An endpoint
// override (localstack) applies to every client built from the result.
func LoadAWSConfig(ctx context.Context, c config.AWSConfig) (sdkaws.Config, error) {
	region := c.Region
	if region == "" {
		region = "us-east-1" // default fallback
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if c.EndpointOverride != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(c.EndpointOverride))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
