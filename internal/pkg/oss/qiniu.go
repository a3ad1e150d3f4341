package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/client"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

// 七牛 Stat 返回 612 表示文件不存在
const qiniuCodeNoSuchEntry = 612

type qiniuStorage struct {
	mac           *qbox.Mac
	cfg           *storage.Config
	bucketManager *storage.BucketManager
	conf          *conf.Oss
	log           *log.Helper
}

func NewQiniuStorage(c *conf.Oss, logger log.Logger) (Storage, error) {
	if c.AccessKeyId == "" || c.AccessKeySecret == "" {
		return nil, errors.New("qiniu access key is required")
	}
	mac := qbox.NewMac(c.AccessKeyId, c.AccessKeySecret)

	cfg := storage.Config{}
	cfg.UseHTTPS = c.UseHttps.IsEnabled()
	cfg.UseCdnDomains = false

	s := &qiniuStorage{
		mac:  mac,
		cfg:  &cfg,
		conf: c,
		log:  log.NewHelper(log.With(logger, "module", "oss/qiniu")),
	}
	s.fillZone(&cfg)
	s.bucketManager = storage.NewBucketManager(mac, &cfg)
	return s, nil
}

func (s *qiniuStorage) Exists(ctx context.Context, key string) (bool, error) {
	// BucketManager.Stat 不接受 ctx，发起请求前检查是否已取消
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := s.bucketManager.Stat(s.conf.BucketName, key)
	if err == nil {
		return true, nil
	}
	if isQiniuNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *qiniuStorage) List(ctx context.Context, prefix string, fn func(key string) error) error {
	marker := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, _, nextMarker, hasNext, err := s.bucketManager.ListFiles(s.conf.BucketName, prefix, "", marker, listPageSize)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := fn(entry.Key); err != nil {
				return err
			}
		}
		if !hasNext {
			return nil
		}
		marker = nextMarker
	}
}

func (s *qiniuStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	// scope 带上 key 才允许覆盖同名文件
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", s.conf.BucketName, key),
	}
	upToken := putPolicy.UploadToken(s.mac)

	formUploader := storage.NewFormUploader(s.cfg)
	ret := storage.PutRet{}

	putExtra := storage.PutExtra{
		MimeType: contentType,
	}

	if err := formUploader.Put(ctx, &ret, upToken, key, reader, size, &putExtra); err != nil {
		return err
	}
	s.log.Debugf("Uploaded %s hash=%s", ret.Key, ret.Hash)
	return nil
}

// fillZone 区域映射逻辑
func (s *qiniuStorage) fillZone(cfg *storage.Config) {
	switch s.conf.Region {
	case "z0":
		cfg.Zone = &storage.ZoneHuadong
	case "z1":
		cfg.Zone = &storage.ZoneHuabei
	case "z2":
		cfg.Zone = &storage.ZoneHuanan
	case "na0":
		cfg.Zone = &storage.ZoneBeimei
	case "as0":
		cfg.Zone = &storage.ZoneXinjiapo
	default:
		cfg.Zone = &storage.ZoneHuadong
	}
}

func isQiniuNotFound(err error) bool {
	var info *client.ErrorInfo
	if errors.As(err, &info) {
		return info.Code == qiniuCodeNoSuchEntry
	}
	return strings.Contains(err.Error(), "no such file or directory")
}
