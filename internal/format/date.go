package format

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 日期展示格式预设。
const (
	LayoutShort   = "MMM yyyy"
	LayoutNumeric = "MM/yyyy"
	LayoutYear    = "yyyy"
	LayoutFull    = "full"
)

// freeTextMaxLen 以上长度的输入视为自由文本（例如 "Trabalho Atual"）。
const freeTextMaxLen = 10

var (
	isoMonthPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})(?:-\d{1,2})?$`)
	slashMonthPattern = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	yearPattern       = regexp.MustCompile(`^(\d{4})$`)
)

// FormatDate 按给定格式渲染宽松输入的日期，无法解析时原样返回，从不 panic。
func FormatDate(raw, layout string, loc Locale) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) > freeTextMaxLen || !strings.ContainsFunc(s, unicode.IsDigit) {
		return Capitalize(s, loc.Tag)
	}

	year, month, ok := parseDate(s)
	if !ok {
		return s
	}
	if month == 0 {
		return strconv.Itoa(year)
	}

	switch layout {
	case LayoutYear:
		return strconv.Itoa(year)
	case LayoutNumeric:
		return pad2(month) + "/" + strconv.Itoa(year)
	case LayoutFull:
		return Capitalize(loc.Months[month-1], loc.Tag) + " " + strconv.Itoa(year)
	default:
		short := strings.TrimSuffix(loc.ShortMonths[month-1], ".")
		return Capitalize(short, loc.Tag) + " " + strconv.Itoa(year)
	}
}

// FormatRange 渲染起止区间；current 为 true 时结束日期替换为本地化的"至今"。
func FormatRange(start, end string, current bool, layout string, loc Locale) string {
	from := FormatDate(start, layout, loc)
	to := ""
	if current {
		to = loc.Present
	} else {
		to = FormatDate(end, layout, loc)
	}

	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	default:
		return from + " – " + to
	}
}

// Capitalize 只大写首字母，其余保持原样。
func Capitalize(s string, tag language.Tag) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(tag).String(string(r)) + s[size:]
}

func parseDate(s string) (year, month int, ok bool) {
	if m := isoMonthPattern.FindStringSubmatch(s); m != nil {
		return yearMonth(m[1], m[2])
	}
	if m := slashMonthPattern.FindStringSubmatch(s); m != nil {
		return yearMonth(m[2], m[1])
	}
	if m := yearPattern.FindStringSubmatch(s); m != nil {
		y, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, false
		}
		return y, 0, true
	}
	return 0, 0, false
}

func yearMonth(y, m string) (int, int, bool) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
