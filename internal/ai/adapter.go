package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"folio/internal/errcode"
	"folio/internal/resume"
)

// ErrUnknownOperation 表示不支持的操作名。
var ErrUnknownOperation = errors.New("unknown ai operation")

// Request 是发往生成服务的请求：自然语言指令 + 结构化上下文。
type Request struct {
	Operation   Operation       `json:"operation"`
	Instruction string          `json:"instruction"`
	Context     json.RawMessage `json:"context"`
}

// Generator 是外部文本生成服务。
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Payload 是操作的输入，字段按操作取用。
type Payload struct {
	Text           string           `json:"text,omitempty"`
	Field          string           `json:"field,omitempty"`
	Tone           string           `json:"tone,omitempty"`
	Language       string           `json:"language,omitempty"`
	JobDescription string           `json:"jobDescription,omitempty"`
	Role           string           `json:"role,omitempty"`
	Location       string           `json:"location,omitempty"`
	Resume         *resume.Document `json:"resume,omitempty"`
}

// Result 是操作输出。Degraded 为 true 表示服务不可用，Text 为原文。
type Result struct {
	Operation Operation       `json:"operation"`
	Text      string          `json:"text,omitempty"`
	Items     []string        `json:"items,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Degraded  bool            `json:"degraded"`
}

// Observer 接收每次调用的操作与结果（ok / degraded / error）。
type Observer func(op Operation, outcome string)

// Adapter 把操作翻译为生成请求并解析响应。
type Adapter struct {
	gen     Generator
	logger  *slog.Logger
	observe Observer
	schemas map[Operation]*gojsonschema.Schema
}

// NewAdapter 创建适配器；gen 为 nil 表示未配置，所有操作降级。
func NewAdapter(gen Generator, logger *slog.Logger, observe Observer) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		gen:     gen,
		logger:  logger,
		observe: observe,
		schemas: make(map[Operation]*gojsonschema.Schema),
	}
	for op, def := range catalog {
		if def.schema == "" {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def.schema))
		if err != nil {
			panic(fmt.Sprintf("ai: invalid schema for %s: %v", op, err))
		}
		a.schemas[op] = schema
	}
	return a
}

// Configured 报告是否配置了生成器。
func (a *Adapter) Configured() bool {
	return a.gen != nil
}

// Transform 执行一次操作。失败时返回降级结果（原文）与错误，调用方据此保持文档不变。
func (a *Adapter) Transform(ctx context.Context, op Operation, p Payload) (Result, error) {
	def, ok := catalog[op]
	if !ok {
		return Result{}, fmt.Errorf("transform %q: %w", op, ErrUnknownOperation)
	}
	fallback := Result{Operation: op, Text: p.Text, Degraded: true}
	logger := a.logger.With(slog.String("operation", string(op)))

	if a.gen == nil {
		a.report(op, "degraded")
		return fallback, errcode.Wrap(errcode.ErrServiceUnavailable, "ai generator not configured")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fallback, fmt.Errorf("marshal payload: %w", err)
	}
	out, err := a.gen.Generate(ctx, Request{Operation: op, Instruction: def.instruction(p), Context: payload})
	if err != nil {
		logger.Warn("ai generate failed", slog.Any("error", err))
		a.report(op, "error")
		return fallback, fmt.Errorf("generate %s: %w: %w", op, errcode.ErrServiceUnavailable, err)
	}

	res, err := a.decode(op, def, out)
	if err != nil {
		logger.Warn("ai response rejected", slog.Any("error", err))
		a.report(op, "error")
		return fallback, fmt.Errorf("decode %s: %w: %w", op, errcode.ErrServiceUnavailable, err)
	}
	a.report(op, "ok")
	return res, nil
}

func (a *Adapter) report(op Operation, outcome string) {
	if a.observe != nil {
		a.observe(op, outcome)
	}
}

func (a *Adapter) decode(op Operation, def opDef, out string) (Result, error) {
	res := Result{Operation: op}
	switch def.kind {
	case kindText:
		text := stripFences(out)
		if text == "" {
			return res, errors.New("empty response")
		}
		res.Text = text
	case kindList:
		raw, ok := extractJSON(out, '[', ']')
		if !ok {
			items := listFromLines(out)
			if len(items) == 0 {
				return res, errors.New("no list in response")
			}
			res.Items = items
			return res, nil
		}
		if err := a.validate(op, raw); err != nil {
			return res, err
		}
		for _, v := range gjson.Parse(raw).Array() {
			if s := strings.TrimSpace(v.String()); s != "" {
				res.Items = append(res.Items, s)
			}
		}
	case kindObject:
		raw, ok := extractJSON(out, '{', '}')
		if !ok {
			return res, errors.New("no json object in response")
		}
		if err := a.validate(op, raw); err != nil {
			return res, err
		}
		res.Data = json.RawMessage(raw)
	}
	return res, nil
}

func (a *Adapter) validate(op Operation, raw string) error {
	schema, ok := a.schemas[op]
	if !ok {
		return nil
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// extractJSON 取第一个 open 到最后一个 close 之间的内容，并校验为合法 JSON。
func extractJSON(s string, open, closing byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return "", false
	}
	raw := s[start : end+1]
	if !gjson.Valid(raw) {
		return "", false
	}
	return raw, true
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

var listMarker = regexp.MustCompile(`^\s*(?:[•*-]|\d+[.)])\s*`)

func listFromLines(s string) []string {
	var out []string
	for line := range strings.SplitSeq(stripFences(s), "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
