package oss

import (
	"context"
	"fmt"
	"io"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

type minioStorage struct {
	client *minio.Client
	conf   *conf.Oss
	log    *log.Helper
}

func NewMinioStorage(c *conf.Oss, logger log.Logger) (Storage, error) {
	// Endpoint 不包含 http/https 前缀
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKeyId, c.AccessKeySecret, c.SecurityToken),
		Secure: c.UseHttps.IsEnabled(),
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &minioStorage{
		client: client,
		conf:   c,
		log:    log.NewHelper(log.With(logger, "module", "oss/minio")),
	}, nil
}

func (s *minioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.conf.BucketName, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

func (s *minioStorage) List(ctx context.Context, prefix string, fn func(key string) error) error {
	// 提前返回时取消 ctx，让 ListObjects 的 goroutine 退出
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := s.client.ListObjects(ctx, s.conf.BucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return object.Err
		}
		if err := fn(object.Key); err != nil {
			return err
		}
	}
	return nil
}

func (s *minioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.conf.BucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return err
	}
	s.log.Debugf("Uploaded %s etag=%s size=%d", key, info.ETag, info.Size)
	return nil
}
