package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/sober-studio/oss-apk-uploader/internal/conf"
	"github.com/sober-studio/oss-apk-uploader/internal/service"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "oss-apk-uploader"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config path.
	flagconf string
	// flagDefaultApk 未配置 apk 时的兜底路径
	flagDefaultApk string
	// runID 标识一次上传，所有日志共用
	runID = uuid.NewString()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           Name,
		Short:         "上传 apk 到对象存储并输出下载链接",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVar(&flagconf, "conf", "", "config path, eg: --conf config.yaml")
	cmd.Flags().StringVar(&flagDefaultApk, "default-apk", os.Getenv("GRADLE_APK_OUTPUT_PATH"), "未配置 apk 时使用的构建产物路径")
	conf.RegisterFlags(cmd.Flags())
	return cmd
}

func newLogger(w io.Writer, level string) log.Logger {
	logger := log.With(log.NewStdLogger(w),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", Name,
		"service.version", Version,
		"run.id", runID,
	)
	return log.NewFilter(logger, log.FilterLevel(log.ParseLevel(level)))
}

func run(cmd *cobra.Command, _ []string) error {
	bc, err := conf.Load(flagconf, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(os.Stderr, bc.LogLevel)

	svc, cleanup, err := wireUploader(&bc.Oss, &bc.App, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := svc.Upload(cmd.Context(), &service.UploadRequest{DefaultApk: flagDefaultApk})
	if err != nil {
		return err
	}

	// 下载链接单独输出到 stdout，方便脚本获取
	fmt.Fprintln(cmd.OutOrStdout(), reply.DownloadUrl)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError 此时配置可能尚未加载，使用默认日志级别
func reportError(w io.Writer, err error) {
	log.NewHelper(newLogger(w, "")).Errorf("上传失败: %v", err)
}
