// Package timex 提供数据库与 JSON 友好的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Layout JSON 输出格式
const Layout = "2006-01-02 15:04:05"

// Time wraps time.Time for gorm columns and JSON output
// Time 封装 time.Time，用于 gorm 字段和 JSON 输出
type Time time.Time

// Now returns the current time in UTC
func Now() Time {
	return Time(time.Now().UTC())
}

// GormDataType lets gorm pick the dialect specific time column type
func (Time) GormDataType() string {
	return "time"
}

// Value implements driver.Valuer
func (t Time) Value() (driver.Value, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return nil, nil
	}
	return tt.UTC(), nil
}

// Scan implements sql.Scanner
func (t *Time) Scan(v interface{}) error {
	switch val := v.(type) {
	case nil:
		*t = Time{}
	case time.Time:
		*t = Time(val)
	case string:
		return t.parse(val)
	case []byte:
		return t.parse(string(val))
	case int64:
		*t = Time(time.UnixMilli(val).UTC())
	default:
		return fmt.Errorf("timex: cannot scan %T into Time", v)
	}
	return nil
}

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	Layout,
}

func (t *Time) parse(s string) error {
	if s == "" {
		*t = Time{}
		return nil
	}
	for _, layout := range parseLayouts {
		if tt, err := time.Parse(layout, s); err == nil {
			*t = Time(tt)
			return nil
		}
	}
	return fmt.Errorf("timex: unsupported time format %q", s)
}

// MarshalJSON 输出为 Layout 格式字符串，零值输出 null
func (t Time) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(tt.Local().Format(Layout))), nil
}

// UnmarshalJSON 解析 Layout 或 RFC3339 字符串
func (t *Time) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	unq, err := strconv.Unquote(s)
	if err != nil {
		return err
	}
	if tt, err := time.ParseInLocation(Layout, unq, time.Local); err == nil {
		*t = Time(tt)
		return nil
	}
	return t.parse(unq)
}

func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// FromMilli 把毫秒时间戳转换为 *time.Time，0 表示未设置
func FromMilli(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

// ToMilli 把 *time.Time 转换为毫秒时间戳，nil 表示 0
func ToMilli(t *time.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
