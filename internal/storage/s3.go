// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// objectAPI is the subset of the S3 client used here.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores images in a public-read bucket on an S3-compatible service.
// Object keys mirror the stored path without the "storage/" prefix.
type S3 struct {
	s3     objectAPI
	bucket string
}

// NewS3 creates an S3 storage client with path-style addressing, which
// CEPH/MinIO style endpoints require.
func NewS3(endpoint, region, accessKey, secretKey, bucket string) (*S3, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("s3 storage: endpoint, credentials and bucket are required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	slog.Info("s3 image storage ready", "endpoint", endpoint, "bucket", bucket)
	return &S3{s3: client, bucket: bucket}, nil
}

// Put uploads body under namespace with public-read ACL and returns the
// stored path.
func (c *S3) Put(ctx context.Context, namespace, ext, contentType string, body io.Reader, size int64) (string, error) {
	key := newKey(namespace, ext)
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return publicPath(key), nil
}

// Delete removes the object behind a stored path.
func (c *S3) Delete(ctx context.Context, p string) error {
	key, ok := keyFromPath(p)
	if !ok {
		return ErrForeignPath
	}
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}
