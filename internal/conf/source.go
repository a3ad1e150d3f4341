package conf

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/spf13/pflag"
)

var _ config.Source = (*flagSource)(nil)

// flagSource 把命令行中显式设置过的参数作为 kratos 配置源
// 只收集 Params 中声明的键，--conf 之类的控制参数不会进入配置
type flagSource struct {
	flags *pflag.FlagSet
}

func NewFlagSource(flags *pflag.FlagSet) config.Source {
	return &flagSource{flags: flags}
}

func (s *flagSource) Load() ([]*config.KeyValue, error) {
	var kvs []*config.KeyValue
	if s.flags == nil {
		return kvs, nil
	}
	// Visit 只遍历被设置过的 flag，未设置的默认值不能覆盖配置文件
	s.flags.Visit(func(f *pflag.Flag) {
		if !isParam(f.Name) {
			return
		}
		kvs = append(kvs, &config.KeyValue{
			Key:   f.Name,
			Value: []byte(f.Value.String()),
		})
	})
	return kvs, nil
}

func (s *flagSource) Watch() (config.Watcher, error) {
	ctx, cancel := context.WithCancel(context.Background())
	return &flagWatcher{ctx: ctx, cancel: cancel}, nil
}

// flagWatcher 命令行参数在进程内不会变化，Next 一直阻塞到 Stop
type flagWatcher struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (w *flagWatcher) Next() ([]*config.KeyValue, error) {
	<-w.ctx.Done()
	return nil, w.ctx.Err()
}

func (w *flagWatcher) Stop() error {
	w.cancel()
	return nil
}

// paramEnvSource 只保留与 Params 完全同名（区分大小写）的环境变量
// DOMAIN、PROVIDER 等无关变量不会进入配置
type paramEnvSource struct {
	config.Source
}

func NewEnvSource() config.Source {
	return &paramEnvSource{Source: env.NewSource()}
}

func (s *paramEnvSource) Load() ([]*config.KeyValue, error) {
	kvs, err := s.Source.Load()
	if err != nil {
		return nil, err
	}
	filtered := kvs[:0]
	for _, kv := range kvs {
		if isParam(kv.Key) {
			filtered = append(filtered, kv)
		}
	}
	return filtered, nil
}

var placeholder = regexp.MustCompile(`\${(.*?)}`)

// envResolver 用进程环境变量展开配置文件中的 ${VAR} 与 ${VAR:default}
func envResolver(input map[string]interface{}) error {
	for k, v := range input {
		input[k] = resolveValue(v)
	}
	return nil
}

func resolveValue(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return expandEnv(x)
	case map[string]interface{}:
		for k, vv := range x {
			x[k] = resolveValue(vv)
		}
	case []interface{}:
		for i, vv := range x {
			x[i] = resolveValue(vv)
		}
	}
	return v
}

func expandEnv(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name, def, _ := strings.Cut(strings.TrimSpace(m[2:len(m)-1]), ":")
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return def
	})
}
