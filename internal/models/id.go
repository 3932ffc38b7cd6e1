package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexID 兼容数字与字符串两种形式的标识
// 后端返回的订单号为数字，客户端生成的幂等键为 UUID 字符串
type FlexID string

// UnmarshalJSON 解析数字或字符串
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

// MarshalJSON 纯数字标识输出为 JSON 数字，其余输出为字符串
func (id FlexID) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id FlexID) isNumeric() bool {
	s := string(id)
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String 返回字符串形式
func (id FlexID) String() string {
	return string(id)
}

// IsZero 是否为空
func (id FlexID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}
