// Package pdf 使用 go-rod 驱动无头 Chromium，把渲染好的 HTML 打印为 PDF 或预览图。
package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"folio/internal/view"
)

const mmPerInch = 25.4

// Generator 每次打印启动一个独立的浏览器实例。
type Generator struct {
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGenerator 创建打印器；bin 为空时自动查找本机 Chromium。
func NewGenerator(bin string, timeout time.Duration, logger *slog.Logger) *Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{bin: bin, timeout: timeout, logger: logger}
}

// PrintPDF 打印整页 HTML。纸张尺寸与页面 @page 规则一致。
func (g *Generator) PrintPDF(ctx context.Context, html []byte, paper view.Paper) ([]byte, error) {
	var out []byte
	err := g.withPage(ctx, html, func(page *rod.Page) error {
		reader, err := page.PDF(&proto.PagePrintToPDF{
			PrintBackground:   true,
			PaperWidth:        float64Ptr(paper.WidthMM / mmPerInch),
			PaperHeight:       float64Ptr(paper.HeightMM / mmPerInch),
			MarginTop:         float64Ptr(0),
			MarginBottom:      float64Ptr(0),
			MarginLeft:        float64Ptr(0),
			MarginRight:       float64Ptr(0),
			PreferCSSPageSize: true,
		})
		if err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		defer func() {
			_ = reader.Close()
		}()

		out, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("read pdf bytes: %w", err)
		}
		return nil
	})
	return out, err
}

// Preview 截取第一页的 JPEG 缩略图。
func (g *Generator) Preview(ctx context.Context, html []byte, quality int) ([]byte, error) {
	var out []byte
	err := g.withPage(ctx, html, func(page *rod.Page) error {
		if el, err := page.Timeout(5 * time.Second).Element(".resume"); err == nil {
			if data, shotErr := el.Screenshot(proto.PageCaptureScreenshotFormatJpeg, quality); shotErr == nil {
				out = data
				return nil
			}
		}
		data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: intPtr(quality),
		})
		if err != nil {
			return fmt.Errorf("page screenshot: %w", err)
		}
		out = data
		return nil
	})
	return out, err
}

func (g *Generator) withPage(ctx context.Context, html []byte, fn func(*rod.Page) error) error {
	launch := launcher.New().
		Headless(true).
		NoSandbox(true).
		Context(ctx)

	if g.bin != "" {
		launch = launch.Bin(g.bin)
	} else if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(browserURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Timeout(g.timeout).Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	page = page.Timeout(g.timeout)
	if err := page.SetDocumentContent(string(html)); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return fmt.Errorf("set emulated media to print: %w", err)
	}

	// 等待字体就绪，避免回退字体度量导致排版差异
	if _, err := page.Timeout(5 * time.Second).Eval(`() => {
	  if (document && document.fonts && document.fonts.ready) {
	    return Promise.race([
	      document.fonts.ready.then(() => true),
	      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
	    ]);
	  }
	  return true;
	}`); err != nil {
		g.logger.Warn("document.fonts.ready wait failed, continue", slog.Any("error", err))
	}

	return fn(page)
}

func float64Ptr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}
