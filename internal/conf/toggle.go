package conf

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Toggle 三态开关：未设置 / 开启 / 关闭
type Toggle int8

const (
	Unspecified Toggle = iota
	Enabled
	Disabled
)

// 视为关闭的字符串取值，区分大小写
var disabledValues = map[string]struct{}{
	"no":    {},
	"NO":    {},
	"false": {},
	"FALSE": {},
}

// ParseToggle 把任意字符串解析为三态开关
// 空串为未设置，disabledValues 中的取值为关闭，其余均为开启
func ParseToggle(v string) Toggle {
	if v == "" {
		return Unspecified
	}
	if _, ok := disabledValues[v]; ok {
		return Disabled
	}
	return Enabled
}

func (t Toggle) IsEnabled() bool { return t == Enabled }

func (t Toggle) String() string {
	switch t {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unspecified"
	}
}

// UnmarshalJSON 同时接受布尔值与字符串
// 配置文件里可能是 false，环境变量和命令行里则总是字符串
func (t *Toggle) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = Unspecified
	case bool:
		if x {
			*t = Enabled
		} else {
			*t = Disabled
		}
	case string:
		*t = ParseToggle(x)
	case float64:
		*t = Enabled
	default:
		return fmt.Errorf("invalid toggle value: %s", strings.TrimSpace(string(b)))
	}
	return nil
}
