package report

import (
	"bytes"
	"context"
	"fmt"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WkhtmltopdfEngine rasterizes HTML through the wkhtmltopdf binary. The
// binary, fonts and system libraries are provisioned by the deployment
// image, not by this package.
type WkhtmltopdfEngine struct {
	pageSize string
	dpi      uint
}

func NewWkhtmltopdfEngine(pageSize string, dpi uint) *WkhtmltopdfEngine {
	if pageSize == "" {
		pageSize = wkhtmltopdf.PageSizeA4
	}
	if dpi == 0 {
		dpi = 96
	}
	return &WkhtmltopdfEngine{pageSize: pageSize, dpi: dpi}
}

// Render implements Engine. A generator is built per call: the underlying
// type is not safe for concurrent reuse, and the renderer above already
// bounds concurrency.
func (e *WkhtmltopdfEngine) Render(ctx context.Context, html []byte) ([]byte, error) {
	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf unavailable: %w", err)
	}

	gen.PageSize.Set(e.pageSize)
	gen.Dpi.Set(e.dpi)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.DisableExternalLinks.Set(true)
	gen.AddPage(page)

	if err := gen.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}

	return gen.Bytes(), nil
}
