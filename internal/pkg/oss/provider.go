package oss

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

// NewOSS 根据配置文件决定使用哪个供应商
// 只构造客户端，不发起网络请求
func NewOSS(c *conf.Oss, logger log.Logger) (Storage, error) {
	switch c.ProviderName() {
	case conf.ProviderAliyun:
		return NewAliyunStorage(c, logger)
	case conf.ProviderQiniu:
		return NewQiniuStorage(c, logger)
	case conf.ProviderMinio:
		return NewMinioStorage(c, logger)
	case conf.ProviderLocal:
		return NewLocalStorage(c, logger)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
}
