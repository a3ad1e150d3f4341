//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/sober-studio/oss-apk-uploader/internal/biz"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
	"github.com/sober-studio/oss-apk-uploader/internal/data"
	"github.com/sober-studio/oss-apk-uploader/internal/service"
)

// wireUploader init the upload service.
func wireUploader(*conf.Oss, *conf.App, log.Logger) (*service.UploadService, func(), error) {
	panic(wire.Build(
		service.ProviderSet,
		biz.ProviderSet,
		data.ProviderSet,
	))
}
