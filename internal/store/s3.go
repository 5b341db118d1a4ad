package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// presignTTL bounds how long listed image URLs stay fetchable.
const presignTTL = time.Hour

// S3 stores images in a bucket under <date>/<filename> keys. Public paths
// are presigned GET URLs.
type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	now     func() time.Time
}

// NewS3 builds an S3 store from the ambient AWS configuration (env,
// credentials file, instance role).
func NewS3(ctx context.Context, bucket, region string) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		now:     time.Now,
	}, nil
}

func (s *S3) Save(ctx context.Context, name, contentType string, r io.Reader) (Entry, error) {
	now := s.now()
	filename, err := NewFilename(name, now)
	if err != nil {
		return Entry{}, err
	}
	date := now.Format("2006-01-02")
	if contentType == "" {
		contentType = ContentTypeFor(filename)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(date, filename)),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Entry{}, fmt.Errorf("put object: %w", err)
	}
	url, err := s.presignGet(ctx, date, filename)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Filename:   filename,
		Path:       url,
		Date:       date,
		UploadTime: time.UnixMilli(now.UnixMilli()),
	}, nil
}

func (s *S3) List(ctx context.Context) ([]DayGroup, error) {
	var entries []Entry
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			filename := path.Base(key)
			date, uploaded, err := ParseFilename(filename)
			if err != nil {
				continue
			}
			url, err := s.presignGet(ctx, date, filename)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{
				Filename:   filename,
				Path:       url,
				Date:       date,
				UploadTime: uploaded,
			})
		}
	}
	return groupEntries(entries), nil
}

func (s *S3) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	date, _, err := ParseFilename(filename)
	if err != nil {
		return nil, "", ErrNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(date, filename)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("get object: %w", err)
	}
	ct := aws.ToString(out.ContentType)
	if ct == "" {
		ct = ContentTypeFor(filename)
	}
	return out.Body, ct, nil
}

func (s *S3) Delete(ctx context.Context, filename string) error {
	date, _, err := ParseFilename(filename)
	if err != nil {
		return ErrNotFound
	}
	key := s.key(date, filename)
	// DeleteObject succeeds on missing keys, so probe first to keep the
	// not-found contract.
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return ErrNotFound
		}
		return fmt.Errorf("head object: %w", err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *S3) key(date, filename string) string {
	return date + "/" + filename
}

func (s *S3) presignGet(ctx context.Context, date, filename string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(date, filename)),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", filename, err)
	}
	return req.URL, nil
}
