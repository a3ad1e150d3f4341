package conf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Duration 支持 30、"30"（秒）以及 "1m30s" 三种写法
type Duration time.Duration

func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

// Seconds 向上取整到秒，SDK 的超时参数以秒为单位
func (d Duration) Seconds() int64 {
	s := int64(time.Duration(d) / time.Second)
	if time.Duration(d)%time.Second != 0 {
		s++
	}
	return s
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(x * float64(time.Second)))
	case string:
		if x == "" {
			*d = 0
			return nil
		}
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			*d = Duration(time.Duration(n) * time.Second)
			return nil
		}
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", x, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
	return nil
}
