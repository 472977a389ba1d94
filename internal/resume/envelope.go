package resume

import (
	"encoding/json"
	"fmt"
)

// EnvelopeVersion 是导出文件的格式版本。
const EnvelopeVersion = 1

// Envelope 是导入/导出文件的外层结构。
type Envelope struct {
	Version int      `json:"version"`
	Data    Document `json:"data"`
}

// Export 将文档包装为带版本号的 JSON。
func Export(d Document) ([]byte, error) {
	payload, err := json.Marshal(Envelope{Version: EnvelopeVersion, Data: d.Normalize()})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return payload, nil
}

// Import 接受信封格式或裸文档，并通过 Merge 叠加到 base 上。
func Import(base Document, payload []byte) (Document, error) {
	return Merge(base, Unwrap(payload))
}

// Unwrap 若 payload 是 {version, data} 信封则返回 data 部分，否则原样返回。
func Unwrap(payload []byte) []byte {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return payload
	}
	data, hasData := top["data"]
	if _, hasVersion := top["version"]; !hasVersion || !hasData {
		return payload
	}
	if _, ok := decodeObject(data); !ok {
		return payload
	}
	return data
}
