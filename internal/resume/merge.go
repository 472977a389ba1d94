package resume

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"folio/internal/errcode"
)

// Merge 将外部（可能不完整的）文档叠加到 base 上：
//   - personalInfo / coverLetter / settings 按字段浅覆盖，缺失字段沿用 base；
//   - 列表字段整体替换，只要导入中出现（哪怕为空或 null）就替换，完全缺失才沿用 base；
//   - 未知字段忽略，类型不符的字段逐个跳过，不会因为局部畸形而失败。
//
// 只有当 payload 不是 JSON 对象时才返回 errcode.ErrInvalidImport，此时 base 原样返回。
func Merge(base Document, imported []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(imported, &fields); err != nil {
		return base, errcode.Wrap(errcode.ErrInvalidImport, "decode import payload")
	}
	if fields == nil {
		return base, errcode.Wrap(errcode.ErrInvalidImport, "import payload is null")
	}

	out := base.Clone()
	overlayObject(&out.PersonalInfo, fields["personalInfo"])
	overlayObject(&out.CoverLetter, fields["coverLetter"])
	overlaySettings(&out.Settings, fields["settings"])

	mergeList(&out.Experience, fields, "experience")
	mergeList(&out.Education, fields, "education")
	mergeList(&out.Projects, fields, "projects")
	mergeList(&out.Certifications, fields, "certifications")
	mergeList(&out.Volunteer, fields, "volunteer")
	mergeList(&out.Awards, fields, "awards")
	mergeList(&out.References, fields, "references")
	mergeList(&out.Publications, fields, "publications")
	mergeList(&out.CustomSections, fields, "customSections")
	mergeList(&out.Skills, fields, "skills")
	mergeList(&out.Languages, fields, "languages")
	mergeList(&out.Interests, fields, "interests")

	return out.Normalize(), nil
}

// overlayObject 逐字段解码到 dst；非对象输入被忽略。
// encoding/json 对类型不符的字段会跳过并保留原值，因此单字段失败不影响其它字段。
func overlayObject(dst any, raw json.RawMessage) {
	obj, ok := decodeObject(raw)
	if !ok {
		return
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		overlayField(dst, key, obj[key])
	}
}

func overlaySettings(dst *Settings, raw json.RawMessage) {
	obj, ok := decodeObject(raw)
	if !ok {
		return
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if strings.EqualFold(key, "visibleSections") {
			// map 字段整体替换，而不是与 base 的键合并。
			var visible map[string]bool
			if err := json.Unmarshal(obj[key], &visible); err == nil {
				dst.VisibleSections = visible
			}
			continue
		}
		overlayField(dst, key, obj[key])
	}
}

func overlayField(dst any, key string, value json.RawMessage) {
	single, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return
	}
	_ = json.Unmarshal(single, dst)
}

func mergeList[T any](dst *[]T, fields map[string]json.RawMessage, key string) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	*dst = decodeList(raw, *dst)
}

// decodeList 逐元素解码；null 视为空列表，非数组保留原值，畸形元素被丢弃。
func decodeList[T any](raw json.RawMessage, fallback []T) []T {
	if isNull(raw) {
		return []T{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fallback
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if obj, ok := decodeObject(item); ok {
			for _, key := range slices.Sorted(maps.Keys(obj)) {
				overlayField(&v, key, obj[key])
			}
			out = append(out, v)
			continue
		}
		if err := json.Unmarshal(item, &v); err != nil || isNull(item) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 || isNull(raw) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
