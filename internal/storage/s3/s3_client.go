package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"filedrop/internal/config"
	"filedrop/internal/port"
)

type s3Signer struct {
	presigner *s3.PresignClient
	now       func() time.Time
}

// NewS3Signer creates an S3-backed UploadURLSigner. The client is built once
// and reused for every request; presigning is local SigV4 and makes no
// network call.
func NewS3Signer(ctx context.Context, cfg *config.S3Config) (port.UploadURLSigner, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return newS3Signer(awsCfg, cfg.Endpoint), nil
}

func newS3Signer(awsCfg aws.Config, endpoint string) *s3Signer {
	var s3Opts []func(*s3.Options)
	if endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &s3Signer{
		presigner: s3.NewPresignClient(client),
		now:       time.Now,
	}
}

func (c *s3Signer) PresignUpload(ctx context.Context, input port.PresignUploadInput) (*port.PresignedUpload, error) {
	issuedAt := c.now()
	result, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Key),
		ContentType: aws.String(input.ContentType),
	}, s3.WithPresignExpires(input.Expires))
	if err != nil {
		return nil, fmt.Errorf("s3 presign put: %w", err)
	}

	return &port.PresignedUpload{
		URL:       result.URL,
		Method:    result.Method,
		ExpiresAt: issuedAt.Add(input.Expires),
	}, nil
}
