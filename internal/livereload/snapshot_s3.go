//go:build s3store

// S3Store gives the live-reload Cache an S3-backed Store, so a second
// replica serving a request sees the same "previously served HTML" a
// sibling replica last wrote. Kept behind the s3store build tag so
// aws-sdk-go-v2/service/s3 isn't pulled into the default binary, the
// same pattern the teacher uses for its own optional S3 upload backend.

package livereload

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store stores per-route HTML snapshots in an S3 bucket under Prefix.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates a Store backed by client, writing objects under
// bucket/prefix/<route>.
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(route string) string {
	return s.prefix + route
}

func (s *S3Store) Get(route string) (string, bool) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(route)),
	})
	if err != nil {
		return "", false
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *S3Store) Put(route, html string) error {
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(route)),
		Body:        bytes.NewReader([]byte(html)),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	return err
}

func (s *S3Store) Delete(route string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(route)),
	})
	return err
}

func (s *S3Store) Routes() []string {
	var routes []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return routes
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				routes = append(routes, (*obj.Key)[len(s.prefix):])
			}
		}
	}
	return routes
}

func (s *S3Store) Clear() error {
	for _, route := range s.Routes() {
		if err := s.Delete(route); err != nil {
			return err
		}
	}
	return nil
}
