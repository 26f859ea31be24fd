// Package s3backup stores export archives in an S3 bucket.
package s3backup

import (
	"bytes"
	"context"
	"errors"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client the store uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func New(client PutObjectAPI, bucket, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewFromDefaultConfig builds the S3 client from the default AWS credential
// chain. An empty region leaves region resolution to the environment.
func NewFromDefaultConfig(ctx context.Context, region, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, errors.New("backup bucket is empty")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.New("loading aws config error: " + err.Error())
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Upload puts body under prefix/key as a JSON object.
func (s *Store) Upload(ctx context.Context, key string, body []byte) error {
	if key == "" {
		return errors.New("backup key is empty")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.New("putting backup object error: " + err.Error())
	}
	return nil
}

func (s *Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
