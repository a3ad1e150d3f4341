package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sober-studio/oss-apk-uploader/internal/biz"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

// UploadRequest 调用方提供的兜底参数
type UploadRequest struct {
	// DefaultApk 配置中未提供 apk 时使用的构建产物路径
	DefaultApk string
}

// UploadReply 上传结果
type UploadReply struct {
	ObjectKey   string
	DownloadUrl string
	Size        int64
	Replaced    bool
	UploadedAt  int64
}

type UploadService struct {
	uc   *biz.UploadUseCase
	conf *conf.App
	log  *log.Helper
}

func NewUploadService(uc *biz.UploadUseCase, c *conf.App, logger log.Logger) *UploadService {
	return &UploadService{
		uc:   uc,
		conf: c,
		log:  log.NewHelper(logger),
	}
}

func (s *UploadService) Upload(ctx context.Context, req *UploadRequest) (*UploadReply, error) {
	// 1. 确定构建文件，配置优先
	apk := s.conf.Apk
	if apk == "" && req != nil {
		apk = req.DefaultApk
		if apk != "" {
			s.log.Debugf("apk not configured, using default %s", apk)
		}
	}

	// 2. 调用 biz 层执行上传
	res, err := s.uc.Upload(ctx, &biz.UploadInput{
		AppName:     s.conf.AppName,
		FilePath:    apk,
		ListBuckets: s.conf.ListBuckets,
	})
	if err != nil {
		return nil, err
	}

	// 3. 返回结果
	return &UploadReply{
		ObjectKey:   res.ObjectKey,
		DownloadUrl: res.DownloadURL,
		Size:        res.Size,
		Replaced:    res.Replaced,
		UploadedAt:  res.UploadedAt.Unix(),
	}, nil
}
