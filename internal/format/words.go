package format

import "strings"

// CountWords 统计所有片段中以空白分隔的非空词数。
func CountWords(parts ...string) int {
	n := 0
	for _, p := range parts {
		n += len(strings.Fields(p))
	}
	return n
}
