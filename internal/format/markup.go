package format

import (
	"iter"
	"strings"
)

// SpanKind 标识行内片段的强调方式。
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanStrong
	SpanEmphasis
)

// Span 是一行中的一个片段。
type Span struct {
	Kind SpanKind
	Text string
}

// Line 是一行自由文本的解析结果。
type Line struct {
	Bullet bool
	Spans  []Span
}

// Empty 表示该行没有可见内容。
func (l Line) Empty() bool {
	for _, s := range l.Spans {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}

// Text 返回去掉标记后的纯文本。
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

var bulletPrefixes = []string{"•", "-"}

// Lines 逐行惰性解析文本；返回的序列可以重复遍历。
func Lines(text string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if text == "" {
			return
		}
		for raw := range strings.SplitSeq(text, "\n") {
			if !yield(ParseLine(strings.TrimRight(raw, "\r"))) {
				return
			}
		}
	}
}

// ParseLine 解析单行：项目符号、**粗体**、*斜体*，其余字符按字面输出。
func ParseLine(line string) Line {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return Line{Bullet: true, Spans: parseInline(strings.TrimSpace(trimmed[len(prefix):]))}
		}
	}
	return Line{Spans: parseInline(trimmed)}
}

func parseInline(s string) []Span {
	var (
		spans []Span
		buf   strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			spans = append(spans, Span{Kind: SpanPlain, Text: buf.String()})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "**") {
			if j := strings.Index(s[i+2:], "**"); j > 0 {
				flush()
				spans = append(spans, Span{Kind: SpanStrong, Text: s[i+2 : i+2+j]})
				i += j + 4
				continue
			}
		} else if s[i] == '*' {
			if j := strings.IndexByte(s[i+1:], '*'); j > 0 {
				flush()
				spans = append(spans, Span{Kind: SpanEmphasis, Text: s[i+1 : i+1+j]})
				i += j + 2
				continue
			}
		}
		buf.WriteByte(s[i])
		i++
	}
	flush()
	return spans
}
