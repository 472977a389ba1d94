// Package view 定义渲染引擎输出的可视树，以及屏幕预览与打印共用的 HTML 序列化。
package view

import (
	"strings"
)

// Attr 是有序的属性键值对。
type Attr struct {
	Key string
	Val string
}

// Decl 是一条内联样式声明。
type Decl struct {
	Prop  string
	Value string
}

// Node 是可视树节点。Tag 为空时表示文本节点。
// 属性与样式都是有序切片，同样的输入总是序列化出同样的字节。
type Node struct {
	Tag      string
	Attrs    []Attr
	Style    []Decl
	Text     string
	Children []*Node
}

// El 构造元素节点，nil 子节点会被忽略。
func El(tag string, children ...*Node) *Node {
	n := &Node{Tag: tag}
	return n.Append(children...)
}

// Text 构造文本节点。
func Text(s string) *Node {
	return &Node{Text: s}
}

// IsText 判断是否为文本节点。
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Append 追加非 nil 子节点。
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Set 设置属性，已存在的键会被覆盖。
func (n *Node) Set(key, val string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return n
}

// Class 追加 class 名。
func (n *Node) Class(names ...string) *Node {
	existing := n.Attr("class")
	all := strings.Fields(existing)
	all = append(all, names...)
	return n.Set("class", strings.Join(all, " "))
}

// Css 设置样式声明，空值会被忽略。
func (n *Node) Css(prop, value string) *Node {
	if value == "" {
		return n
	}
	for i := range n.Style {
		if n.Style[i].Prop == prop {
			n.Style[i].Value = value
			return n
		}
	}
	n.Style = append(n.Style, Decl{Prop: prop, Value: value})
	return n
}

// Attr 返回属性值，不存在时为空。
func (n *Node) Attr(key string) string {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// StyleValue 返回样式声明的值。
func (n *Node) StyleValue(prop string) string {
	for _, d := range n.Style {
		if d.Prop == prop {
			return d.Value
		}
	}
	return ""
}

// Walk 先序遍历，fn 返回 false 时不再进入该节点的子树。
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll 返回所有满足条件的节点。
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if match(x) {
			out = append(out, x)
		}
		return true
	})
	return out
}

// TextContent 拼接子树中的全部文本。
func (n *Node) TextContent() string {
	var b strings.Builder
	n.Walk(func(x *Node) bool {
		if x.IsText() {
			b.WriteString(x.Text)
		}
		return true
	})
	return b.String()
}

// HasAttr 构造按属性匹配的谓词。
func HasAttr(key, val string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Attr(key) == val
	}
}
