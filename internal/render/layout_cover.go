package render

import (
	"strings"

	"folio/internal/view"
)

// coverLayout 是求职信的固定版式：信头、收件人、正文、落款。与主题版式族无关。
func (c *renderCtx) coverLayout() *view.Node {
	p := c.doc.PersonalInfo
	cl := c.doc.CoverLetter

	letterhead := view.El("div").
		Set("data-region", "letterhead").
		Css("padding-bottom", c.gapMM(5)).
		Css("margin-bottom", c.gapMM(8)).
		Css("border-bottom", "0.6mm solid "+c.primary)
	letterhead.Append(c.header("left", onPage, 24), c.contactLine("flex-start"))

	recipient := view.El("div").Set("data-region", "recipient").Css("margin-bottom", c.gapMM(6))
	for _, line := range []string{cl.RecipientName, cl.Company} {
		if line = strings.TrimSpace(line); line != "" {
			recipient.Append(view.El("p", view.Text(line)))
		}
	}
	if job := strings.TrimSpace(cl.JobTitle); job != "" {
		recipient.Append(view.El("p", view.Text(c.loc.Label("regarding")+" "+job)).
			Set("data-role", "regarding").
			Css("font-weight", "700").
			Css("margin-top", c.gapMM(3)))
	}

	body := view.El("div").Set("data-region", "body")
	greeting := c.loc.Label("greetingAny")
	if name := strings.TrimSpace(cl.RecipientName); name != "" {
		greeting = c.loc.Label("greeting") + " " + name
	}
	body.Append(view.El("p", view.Text(greeting+",")).Set("data-role", "greeting").Css("margin-bottom", c.gapMM(4)))
	for para := range strings.SplitSeq(strings.ReplaceAll(cl.Body, "\r\n", "\n"), "\n\n") {
		if n := c.markup(para); n != nil {
			body.Append(n.Css("margin-bottom", c.gapMM(4)))
		}
	}

	closing := view.El("div", view.El("p", view.Text(c.loc.Label("closing")))).
		Set("data-region", "signature").
		Css("margin-top", c.gapMM(8))
	if name := strings.TrimSpace(p.FullName); name != "" {
		closing.Append(view.El("p", view.Text(name)).
			Set("data-role", "signature").
			Css("font-family", fontStack(c.headerFont, fontFallback)).
			Css("font-weight", "700").
			Css("margin-top", c.gapMM(6)))
	}

	return view.El("div", letterhead, recipient, body, closing).
		Css("padding", c.gapMM(20)+" "+c.gapMM(22))
}
