package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/sober-studio/oss-apk-uploader/internal/biz"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
	"github.com/sober-studio/oss-apk-uploader/internal/pkg/oss"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	wire.Bind(new(biz.ObjectStoreOpener), new(*Data)),
)

// Data .
// 客户端在 OpenObjectStore 时才创建，本地校验失败时不会产生任何网络请求
type Data struct {
	conf   *conf.Oss
	logger log.Logger
	log    *log.Helper
}

// NewData .
func NewData(c *conf.Oss, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data"))
	cleanup := func() {
		helper.Debug("closing the data resources")
	}
	return &Data{
		conf:   c,
		logger: logger,
		log:    helper,
	}, cleanup, nil
}

// OpenObjectStore 按 provider 创建对象存储客户端 (biz.ObjectStoreOpener 接口)
func (d *Data) OpenObjectStore(ctx context.Context) (biz.ObjectStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.log.Debugf("opening %s object storage, bucket=%s", d.conf.ProviderName(), d.conf.BucketName)
	store, err := oss.NewOSS(d.conf, d.logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}
