package format

import (
	"fmt"
	"strconv"
	"strings"
)

// ContrastRule 保存两套独立阈值：TextThreshold 决定文字用深色还是白色，
// TooLightThreshold 标记过浅、不适合作为实色强调的颜色。两者不要求一致。
type ContrastRule struct {
	TextThreshold     float64
	TooLightThreshold float64
	DarkText          string
	LightText         string
}

// DefaultContrast 是渲染引擎使用的默认阈值。
var DefaultContrast = ContrastRule{
	TextThreshold:     128,
	TooLightThreshold: 200,
	DarkText:          "#0f172a",
	LightText:         "#ffffff",
}

// RGB 是解析后的颜色分量。
type RGB struct {
	R, G, B uint8
}

// ParseHex 解析 #rgb / #rrggbb（# 可省略）。
func ParseHex(s string) (RGB, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Hex 返回小写 #rrggbb。
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NormalizeHex 校验并规范化颜色，非法输入返回 false。
func NormalizeHex(s string) (string, bool) {
	c, ok := ParseHex(s)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

// Luminance 使用 0.299R + 0.587G + 0.114B 计算感知亮度；非法颜色视为 0。
func Luminance(hex string) float64 {
	c, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// ContrastColor 返回在该背景上可读的文字颜色。
func (r ContrastRule) ContrastColor(hex string) string {
	if Luminance(hex) >= r.TextThreshold {
		return r.DarkText
	}
	return r.LightText
}

// IsTooLight 判断颜色是否过浅。
func (r ContrastRule) IsTooLight(hex string) bool {
	return Luminance(hex) >= r.TooLightThreshold
}

// ContrastColor 使用 DefaultContrast。
func ContrastColor(hex string) string {
	return DefaultContrast.ContrastColor(hex)
}

// IsTooLight 使用 DefaultContrast。
func IsTooLight(hex string) bool {
	return DefaultContrast.IsTooLight(hex)
}

// WithAlpha 返回 rgba() 表达式；非法颜色按黑色处理。
func WithAlpha(hex string, alpha float64) string {
	c, _ := ParseHex(hex)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}
