// Package ai 是文本改写服务的适配层：每个操作都是一次请求/响应往返，不重试、不缓存、不流式。
// 未配置生成器时所有操作降级为原样返回。
package ai

import (
	"fmt"
	"strings"
)

// Operation 是支持的改写操作。
type Operation string

const (
	OpRewrite           Operation = "rewrite"
	OpSummarize         Operation = "summarize"
	OpTranslate         Operation = "translate"
	OpSuggestSkills     Operation = "suggest-skills"
	OpCoverLetter       Operation = "generate-cover-letter"
	OpAnalyzeMatch      Operation = "analyze-match"
	OpGenerateQuestions Operation = "generate-questions"
	OpEstimateSalary    Operation = "estimate-salary"
	OpAnalyzeGap        Operation = "analyze-gap"
	OpExtract           Operation = "extract-from-document"
)

// Operations 按固定顺序列出全部操作。
var Operations = []Operation{
	OpRewrite, OpSummarize, OpTranslate, OpSuggestSkills, OpCoverLetter,
	OpAnalyzeMatch, OpGenerateQuestions, OpEstimateSalary, OpAnalyzeGap, OpExtract,
}

// ParseOperation 校验操作名。
func ParseOperation(s string) (Operation, bool) {
	op := Operation(s)
	_, ok := catalog[op]
	return op, ok
}

type resultKind int

const (
	kindText resultKind = iota
	kindList
	kindObject
)

type opDef struct {
	kind        resultKind
	instruction func(p Payload) string
	schema      string
}

const jsonOnly = "Respond with ONLY valid JSON. Do not include explanations, markdown or code fences."

var catalog = map[Operation]opDef{
	OpRewrite: {kind: kindText, instruction: func(p Payload) string {
		return "Rewrite the following resume " + or(p.Field, "text") + " to be concise, achievement oriented and professional. " +
			"Keep the original language and any bullet markers (• or -). Return only the rewritten text." + toneHint(p)
	}},
	OpSummarize: {kind: kindText, instruction: func(p Payload) string {
		return "Write a professional resume summary of at most four sentences based on the context. Return only the summary." + toneHint(p)
	}},
	OpTranslate: {kind: kindText, instruction: func(p Payload) string {
		return fmt.Sprintf("Translate the text into %s, preserving line breaks, bullet markers and **bold**/*italic* markers. Return only the translation.", or(p.Language, "English"))
	}},
	OpSuggestSkills: {kind: kindList, schema: stringArraySchema, instruction: func(p Payload) string {
		return "Suggest up to 10 relevant skills for this profile that are not already listed. " +
			"Return a JSON array of short strings. " + jsonOnly
	}},
	OpCoverLetter: {kind: kindText, instruction: func(p Payload) string {
		return "Write the body of a cover letter (three to five short paragraphs separated by blank lines) for the target role, " +
			"using the resume in the context. Do not include greeting or signature." + toneHint(p)
	}},
	OpAnalyzeMatch: {kind: kindObject, schema: matchSchema, instruction: func(p Payload) string {
		return `Compare the resume with the job description. Return a JSON object {"score": number 0-100, "strengths": [string], "missing": [string]}. ` + jsonOnly
	}},
	OpGenerateQuestions: {kind: kindList, schema: stringArraySchema, instruction: func(p Payload) string {
		return "Generate up to 8 interview questions the candidate should prepare for, based on the resume and job description. " +
			"Return a JSON array of strings. " + jsonOnly
	}},
	OpEstimateSalary: {kind: kindObject, schema: salarySchema, instruction: func(p Payload) string {
		return `Estimate a yearly salary range for the role and location in the context. Return a JSON object ` +
			`{"currency": string, "min": number, "max": number, "notes": string}. ` + jsonOnly
	}},
	OpAnalyzeGap: {kind: kindObject, schema: gapSchema, instruction: func(p Payload) string {
		return `List the skill and experience gaps between the resume and the target role, with concrete suggestions. ` +
			`Return a JSON object {"gaps": [string], "suggestions": [string]}. ` + jsonOnly
	}},
	OpExtract: {kind: kindObject, schema: documentSchema, instruction: func(p Payload) string {
		return `Extract a resume from the document text. Return a JSON object using the keys personalInfo ` +
			`{fullName,title,email,phone,address,linkedin,github,website,summary}, experience [{position,company,location,startDate,endDate,current,description}], ` +
			`education [{degree,institution,location,startDate,endDate}], skills [{name,level}], languages [string]. ` +
			`Dates use YYYY-MM. Omit unknown fields. ` + jsonOnly
	}},
}

func toneHint(p Payload) string {
	if p.Tone == "" {
		return ""
	}
	return " Use a " + p.Tone + " tone."
}

func or(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

const stringArraySchema = `{"type":"array","items":{"type":"string"}}`

const matchSchema = `{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 100},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"missing": {"type": "array", "items": {"type": "string"}}
	}
}`

const salarySchema = `{
	"type": "object",
	"required": ["min", "max"],
	"properties": {
		"currency": {"type": "string"},
		"min": {"type": "number", "minimum": 0},
		"max": {"type": "number", "minimum": 0},
		"notes": {"type": "string"}
	}
}`

const gapSchema = `{
	"type": "object",
	"properties": {
		"gaps": {"type": "array", "items": {"type": "string"}},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	}
}`

const documentSchema = `{
	"type": "object",
	"properties": {
		"personalInfo": {"type": "object"},
		"experience": {"type": "array", "items": {"type": "object"}},
		"education": {"type": "array", "items": {"type": "object"}},
		"skills": {"type": "array"},
		"languages": {"type": "array", "items": {"type": "string"}}
	}
}`
