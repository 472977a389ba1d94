package ai

import (
	"context"

	"github.com/tidwall/gjson"

	"folio/internal/resume"
)

// Rewrite 改写一段文本，失败时返回原文。
func (a *Adapter) Rewrite(ctx context.Context, field, text string) (string, error) {
	res, err := a.Transform(ctx, OpRewrite, Payload{Field: field, Text: text})
	return res.Text, err
}

// Summarize 基于文档生成简介。
func (a *Adapter) Summarize(ctx context.Context, doc resume.Document) (string, error) {
	res, err := a.Transform(ctx, OpSummarize, Payload{Text: doc.PersonalInfo.Summary, Resume: &doc})
	return res.Text, err
}

// Translate 翻译文本到目标语言。
func (a *Adapter) Translate(ctx context.Context, text, language string) (string, error) {
	res, err := a.Transform(ctx, OpTranslate, Payload{Text: text, Language: language})
	return res.Text, err
}

// SuggestSkills 返回建议技能，降级时为空。
func (a *Adapter) SuggestSkills(ctx context.Context, doc resume.Document) ([]string, error) {
	res, err := a.Transform(ctx, OpSuggestSkills, Payload{Resume: &doc})
	return res.Items, err
}

// CoverLetter 生成求职信正文。
func (a *Adapter) CoverLetter(ctx context.Context, doc resume.Document, jobDescription string) (string, error) {
	res, err := a.Transform(ctx, OpCoverLetter, Payload{Text: doc.CoverLetter.Body, Resume: &doc, JobDescription: jobDescription, Role: doc.CoverLetter.JobTitle})
	return res.Text, err
}

// Match 是简历与职位的匹配分析。
type Match struct {
	Score     float64  `json:"score"`
	Strengths []string `json:"strengths"`
	Missing   []string `json:"missing"`
}

// AnalyzeMatch 比较简历与职位描述。
func (a *Adapter) AnalyzeMatch(ctx context.Context, doc resume.Document, jobDescription string) (Match, error) {
	res, err := a.Transform(ctx, OpAnalyzeMatch, Payload{Resume: &doc, JobDescription: jobDescription})
	if err != nil {
		return Match{}, err
	}
	data := gjson.ParseBytes(res.Data)
	return Match{
		Score:     data.Get("score").Float(),
		Strengths: stringsOf(data.Get("strengths")),
		Missing:   stringsOf(data.Get("missing")),
	}, nil
}

// InterviewQuestions 生成面试问题。
func (a *Adapter) InterviewQuestions(ctx context.Context, doc resume.Document, jobDescription string) ([]string, error) {
	res, err := a.Transform(ctx, OpGenerateQuestions, Payload{Resume: &doc, JobDescription: jobDescription})
	return res.Items, err
}

// Salary 是薪资区间估计。
type Salary struct {
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Notes    string  `json:"notes"`
}

// EstimateSalary 估计岗位薪资。
func (a *Adapter) EstimateSalary(ctx context.Context, role, location string) (Salary, error) {
	res, err := a.Transform(ctx, OpEstimateSalary, Payload{Role: role, Location: location})
	if err != nil {
		return Salary{}, err
	}
	data := gjson.ParseBytes(res.Data)
	return Salary{
		Currency: data.Get("currency").String(),
		Min:      data.Get("min").Float(),
		Max:      data.Get("max").Float(),
		Notes:    data.Get("notes").String(),
	}, nil
}

// Gap 是能力差距分析。
type Gap struct {
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
}

// AnalyzeGap 分析与目标岗位的差距。
func (a *Adapter) AnalyzeGap(ctx context.Context, doc resume.Document, role string) (Gap, error) {
	res, err := a.Transform(ctx, OpAnalyzeGap, Payload{Resume: &doc, Role: role})
	if err != nil {
		return Gap{}, err
	}
	data := gjson.ParseBytes(res.Data)
	return Gap{Gaps: stringsOf(data.Get("gaps")), Suggestions: stringsOf(data.Get("suggestions"))}, nil
}

// ExtractDocument 从文档文本中抽取简历并合并到 base；失败时返回 base。
func (a *Adapter) ExtractDocument(ctx context.Context, base resume.Document, text string) (resume.Document, error) {
	res, err := a.Transform(ctx, OpExtract, Payload{Text: text})
	if err != nil {
		return base, err
	}
	return resume.Merge(base, res.Data)
}

func stringsOf(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}
