package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gallery/internal/config"
)

// S3 stores assets in an S3-compatible bucket (AWS, MinIO, any hosted asset
// service speaking the S3 API). Originals live under <folder>/, thumbnails
// under <folder>/thumbs/. Returned locators are absolute public URLs.
type S3 struct {
	client  *s3.Client
	bucket  string
	folder  string
	baseURL string
	log     *zap.Logger
}

func NewS3(ctx context.Context, cfg config.S3Config, log *zap.Logger) (*S3, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  strings.Trim(cfg.Folder, "/"),
		baseURL: baseURL,
		log:     log,
	}, nil
}

func (b *S3) Store(ctx context.Context, original, thumbnail []byte, originalName string) (*StoredAsset, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	filename := id + ext
	origKey := b.folder + "/" + filename
	thumbKey := b.folder + "/thumbs/" + id + ".jpg"

	if err := b.put(ctx, origKey, original, contentTypeFor(ext)); err != nil {
		return nil, fmt.Errorf("upload original: %w", err)
	}
	if err := b.put(ctx, thumbKey, thumbnail, "image/jpeg"); err != nil {
		// Roll the original back so the pair stays atomic.
		if delErr := b.delete(ctx, origKey); delErr != nil {
			b.log.Warn("rollback of original failed after thumbnail upload error",
				zap.String("key", origKey), zap.Error(delErr))
		}
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	return &StoredAsset{
		Filename:     filename,
		URL:          b.baseURL + "/" + origKey,
		ThumbnailURL: b.baseURL + "/" + thumbKey,
		Size:         int64(len(original)),
	}, nil
}

func (b *S3) Remove(ctx context.Context, url, thumbnailURL string) error {
	var firstErr error
	for _, u := range []string{url, thumbnailURL} {
		key, ok := b.keyFromURL(u)
		if !ok {
			continue
		}
		// DeleteObject succeeds for keys that are already gone.
		if err := b.delete(ctx, key); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return firstErr
}

func (b *S3) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	return err
}

func (b *S3) delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (b *S3) keyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, b.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
