package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

// S3API is the subset of the S3 client used by FileStore.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// FileStore reports bucket usage from an S3-compatible object store.
type FileStore struct {
	client S3API
	prefix string
}

var _ repository.FileStore = (*FileStore)(nil)

type Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

func NewFileStore(client S3API, prefix string) *FileStore {
	return &FileStore{client: client, prefix: prefix}
}

// NewClient loads the default AWS chain, with static credentials and a custom
// endpoint (MinIO, LocalStack) when given.
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if strings.TrimSpace(opts.AccessKey) != "" && strings.TrimSpace(opts.SecretKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ListFiles maps one ListObjectsV2 page onto a FilePage. Object keys become
// file ids and names; the continuation token is the cursor.
func (s *FileStore) ListFiles(ctx context.Context, bucket string, page model.PageRequest) (*model.FilePage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}
	if page.Limit > 0 {
		input.MaxKeys = aws.Int32(int32(page.Limit))
	}
	if page.Cursor != "" {
		input.ContinuationToken = aws.String(page.Cursor)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, errors.Upstream(fmt.Sprintf("failed to list objects of bucket %s", bucket), err)
	}

	result := &model.FilePage{
		Files: make([]model.File, 0, len(out.Contents)),
		Total: int(aws.ToInt32(out.KeyCount)),
	}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		result.Files = append(result.Files, model.File{
			ID:           key,
			Name:         key[strings.LastIndex(key, "/")+1:],
			SizeOriginal: aws.ToInt64(obj.Size),
		})
	}
	if aws.ToBool(out.IsTruncated) {
		result.Next = aws.ToString(out.NextContinuationToken)
	}
	return result, nil
}
