package conf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleTruthTable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Toggle
	}{
		{"unset", `null`, Unspecified},
		{"empty string", `""`, Unspecified},
		{"bool false", `false`, Disabled},
		{"bool true", `true`, Enabled},
		{"no", `"no"`, Disabled},
		{"NO", `"NO"`, Disabled},
		{"false", `"false"`, Disabled},
		{"FALSE", `"FALSE"`, Disabled},
		{"yes", `"yes"`, Enabled},
		{"true", `"true"`, Enabled},
		{"mixed case False is not in the list", `"False"`, Enabled},
		{"number", `0`, Enabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Toggle
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleMissingKeyIsUnspecified(t *testing.T) {
	var app App
	require.NoError(t, json.Unmarshal([]byte(`{"app_name":"demo"}`), &app))
	assert.Equal(t, Unspecified, app.ListBuckets)
	assert.False(t, app.ListBuckets.IsEnabled())
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{`30`, 30 * time.Second},
		{`"45"`, 45 * time.Second},
		{`"1m30s"`, 90 * time.Second},
		{`""`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var d Duration
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &d))
			assert.Equal(t, tt.want, d.AsDuration())
		})
	}

	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
}

func TestDurationSecondsRoundsUp(t *testing.T) {
	assert.Equal(t, int64(2), Duration(1500*time.Millisecond).Seconds())
	assert.Equal(t, int64(10), Duration(10*time.Second).Seconds())
	assert.Equal(t, int64(0), Duration(0).Seconds())
}

func TestProviderName(t *testing.T) {
	assert.Equal(t, ProviderAliyun, (&Oss{}).ProviderName())
	assert.Equal(t, ProviderMinio, (&Oss{Provider: ProviderMinio}).ProviderName())
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.String("conf", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
endpoint: file-endpoint.aliyuncs.com
bucket_name: file-bucket
app_name: app/demo
access_key_id: file-id
list_buckets: false
connect_timeout: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	flags := newFlags(t,
		"--conf", path,
		"--endpoint", "flag-endpoint.aliyuncs.com",
		"--bucket_name", "flag-bucket",
		"--read_write_timeout", "2m",
	)
	t.Setenv("endpoint", "oss-cn-shenzhen.aliyuncs.com")

	bc, err := Load(path, flags)
	require.NoError(t, err)

	// 环境变量覆盖命令行，命令行覆盖配置文件
	assert.Equal(t, "oss-cn-shenzhen.aliyuncs.com", bc.Endpoint)
	assert.Equal(t, "flag-bucket", bc.BucketName)
	assert.Equal(t, "app/demo", bc.AppName)
	assert.Equal(t, "file-id", bc.AccessKeyId)
	assert.Equal(t, Disabled, bc.ListBuckets)
	assert.Equal(t, 10*time.Second, bc.ConnectTimeout.AsDuration())
	assert.Equal(t, 2*time.Minute, bc.ReadWriteTimeout.AsDuration())
}

func TestLoadWithoutFile(t *testing.T) {
	flags := newFlags(t,
		"--endpoint", "oss-cn-shenzhen.aliyuncs.com",
		"--list_buckets", "yes",
		"--apk", "/tmp/demo.apk",
	)

	bc, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "oss-cn-shenzhen.aliyuncs.com", bc.Endpoint)
	assert.Equal(t, "/tmp/demo.apk", bc.Apk)
	assert.True(t, bc.ListBuckets.IsEnabled())
}

func TestFlagSourceSkipsUnsetAndControlFlags(t *testing.T) {
	flags := newFlags(t, "--conf", "ignored.yaml", "--app_name", "demo")

	kvs, err := NewFlagSource(flags).Load()
	require.NoError(t, err)
	require.Len(t, kvs, 1)
	assert.Equal(t, "app_name", kvs[0].Key)
	assert.Equal(t, "demo", string(kvs[0].Value))
}

func TestLoadIgnoresUnrelatedEnv(t *testing.T) {
	t.Setenv("DOMAIN", "ci.example.com")
	t.Setenv("PROVIDER", "github")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APK", "/tmp/other.apk")
	t.Setenv("bucket_name", "env-bucket")

	bc, err := Load("", newFlags(t, "--endpoint", "oss-cn-shenzhen.aliyuncs.com"))
	require.NoError(t, err)

	assert.Empty(t, bc.Domain)
	assert.Empty(t, bc.Provider)
	assert.Empty(t, bc.LogLevel)
	assert.Empty(t, bc.Apk)
	assert.Equal(t, "env-bucket", bc.BucketName)
	assert.Equal(t, ProviderAliyun, bc.ProviderName())
}

func TestLoadResolvesPlaceholdersFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
access_key_id: ${OSS_TEST_ACCESS_KEY_ID}
access_key_secret: ${OSS_TEST_ACCESS_KEY_SECRET:fallback-secret}
bucket_name: cn-app-test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("OSS_TEST_ACCESS_KEY_ID", "env-id")

	bc, err := Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "env-id", bc.AccessKeyId)
	assert.Equal(t, "fallback-secret", bc.AccessKeySecret)
	assert.Equal(t, "cn-app-test", bc.BucketName)
}

func TestEnvSourceKeepsOnlyParams(t *testing.T) {
	t.Setenv("app_name", "app/demo")
	t.Setenv("APP_NAME", "ignored")

	kvs, err := NewEnvSource().Load()
	require.NoError(t, err)
	keys := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		keys = append(keys, kv.Key)
		assert.True(t, isParam(kv.Key), kv.Key)
	}
	assert.Contains(t, keys, "app_name")
	assert.NotContains(t, keys, "APP_NAME")
	assert.NotContains(t, keys, "PATH")
}
