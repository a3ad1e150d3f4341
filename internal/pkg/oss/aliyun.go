package oss

import (
	"context"
	"fmt"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

// SDK 默认的超时时间（秒），只配置了其中一个时另一个沿用默认值
const (
	defaultConnectTimeout   = 30
	defaultReadWriteTimeout = 60
	listPageSize            = 1000
)

type aliyunStorage struct {
	client *oss.Client
	bucket *oss.Bucket
	conf   *conf.Oss
	log    *log.Helper
}

func NewAliyunStorage(c *conf.Oss, logger log.Logger) (Storage, error) {
	helper := log.NewHelper(log.With(logger, "module", "oss/aliyun"))

	provider, err := newCredentialsProvider(c, helper)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Aliyun credentials: %w", err)
	}

	options := []oss.ClientOption{
		oss.SetCredentialsProvider(provider),
		oss.SetLogger(newSDKLogger(logger)),
		oss.SetLogLevel(oss.Info),
	}
	if c.ConnectTimeout > 0 || c.ReadWriteTimeout > 0 {
		connect, readWrite := int64(defaultConnectTimeout), int64(defaultReadWriteTimeout)
		if c.ConnectTimeout > 0 {
			connect = c.ConnectTimeout.Seconds()
		}
		if c.ReadWriteTimeout > 0 {
			readWrite = c.ReadWriteTimeout.Seconds()
		}
		options = append(options, oss.Timeout(connect, readWrite))
	}

	client, err := oss.New(c.Endpoint, c.AccessKeyId, c.AccessKeySecret, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Aliyun OSS client: %w", err)
	}

	bucket, err := client.Bucket(c.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get Aliyun OSS bucket: %w", err)
	}

	return &aliyunStorage{
		client: client,
		bucket: bucket,
		conf:   c,
		log:    helper,
	}, nil
}

func (s *aliyunStorage) Exists(ctx context.Context, key string) (bool, error) {
	return s.bucket.IsObjectExist(key, oss.WithContext(ctx))
}

func (s *aliyunStorage) List(ctx context.Context, prefix string, fn func(key string) error) error {
	marker := oss.Marker("")
	for {
		result, err := s.bucket.ListObjects(oss.Prefix(prefix), oss.MaxKeys(listPageSize), marker, oss.WithContext(ctx))
		if err != nil {
			return err
		}
		for _, object := range result.Objects {
			if err := fn(object.Key); err != nil {
				return err
			}
		}
		if !result.IsTruncated {
			return nil
		}
		marker = oss.Marker(result.NextMarker)
	}
}

func (s *aliyunStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	options := []oss.Option{
		oss.WithContext(ctx),
		oss.Progress(newProgressListener(key, s.log)),
	}
	if size >= 0 {
		options = append(options, oss.ContentLength(size))
	}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}
	// 设置访问权限，未配置时继承 Bucket 的权限
	if s.conf.ObjectAcl != "" {
		options = append(options, oss.ObjectACL(oss.ACLType(s.conf.ObjectAcl)))
	}

	return s.bucket.PutObject(key, reader, options...)
}

// progressListener 每 10% 输出一次上传进度
type progressListener struct {
	key  string
	last int64
	log  *log.Helper
}

func newProgressListener(key string, helper *log.Helper) *progressListener {
	return &progressListener{key: key, last: -1, log: helper}
}

func (l *progressListener) ProgressChanged(event *oss.ProgressEvent) {
	switch event.EventType {
	case oss.TransferStartedEvent:
		l.log.Debugf("Transfer started: %s (%d bytes)", l.key, event.TotalBytes)
	case oss.TransferDataEvent:
		if event.TotalBytes <= 0 {
			return
		}
		step := event.ConsumedBytes * 10 / event.TotalBytes
		if step > l.last {
			l.last = step
			l.log.Infof("Uploading %s: %d%%", l.key, step*10)
		}
	case oss.TransferCompletedEvent:
		l.log.Debugf("Transfer completed: %s (%d bytes)", l.key, event.ConsumedBytes)
	case oss.TransferFailedEvent:
		l.log.Warnf("Transfer failed: %s after %d bytes", l.key, event.ConsumedBytes)
	}
}
