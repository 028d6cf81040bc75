package inspector

import (
	"encoding/json"
)

// JSONContext 封装json类型的变量值, 提供紧凑的字符串输出
type JSONContext struct {
	data  any
	raw   []byte
	valid bool // raw是合法的json
}

// NewJSONContext 从字节创建 JSON 上下文, 不是合法json时原样保留字节
func NewJSONContext(b []byte) *JSONContext {
	ctx := &JSONContext{raw: b}
	if len(b) > 0 {
		ctx.valid = json.Unmarshal(b, &ctx.data) == nil
		if !ctx.valid {
			ctx.data = nil
		}
	}
	return ctx
}

// ToBytes 转换为紧凑的 JSON 字节
func (c *JSONContext) ToBytes() ([]byte, error) {
	if !c.valid && len(c.raw) > 0 {
		return c.raw, nil
	}
	return json.Marshal(c.data)
}

// String 报告中变量值的输出格式
func (c *JSONContext) String() string {
	b, err := c.ToBytes()
	if err != nil {
		return string(c.raw)
	}
	return string(b)
}

func (c *JSONContext) MarshalJSON() ([]byte, error) {
	if !c.valid && len(c.raw) > 0 {
		// 不是合法json, 作为字符串输出
		return json.Marshal(string(c.raw))
	}
	return json.Marshal(c.data)
}
