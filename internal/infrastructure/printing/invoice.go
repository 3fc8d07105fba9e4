package printing

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/invoice.html.tmpl
var invoiceTemplate string

// StoreInfo is the seller block printed on invoices
type StoreInfo struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Currency string
}

// Invoice is the data rendered into an invoice document
type Invoice struct {
	Store         StoreInfo
	Order         *order.Order
	CustomerName  string
	CustomerEmail string
	IssuedAt      time.Time
}

// InvoicePrinter renders invoices as HTML and, when a PDF renderer is
// configured, as PDF
type InvoicePrinter struct {
	tmpl *template.Template
	pdf  PDFRenderer
}

// NewInvoicePrinter parses the invoice template. pdf may be nil.
func NewInvoicePrinter(pdf PDFRenderer) *InvoicePrinter {
	title := cases.Title(language.English)
	upper := cases.Upper(language.English)
	funcs := template.FuncMap{
		"money": formatMoney,
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006")
		},
		// ready_for_pickup -> Ready For Pickup
		"label": func(v any) string {
			return title.String(strings.ReplaceAll(fmt.Sprint(v), "_", " "))
		},
		"upper": upper.String,
	}
	return &InvoicePrinter{
		tmpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceTemplate)),
		pdf:  pdf,
	}
}

func formatMoney(currency string, amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// PDFEnabled reports whether PDF output is available
func (p *InvoicePrinter) PDFEnabled() bool {
	return p.pdf != nil
}

// HTML renders inv as a standalone HTML document
func (p *InvoicePrinter) HTML(inv Invoice) ([]byte, error) {
	if inv.Order == nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "invoice has no order", nil)
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, inv); err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to render invoice template", err)
	}
	return buf.Bytes(), nil
}

// PDF renders inv through the configured PDF renderer
func (p *InvoicePrinter) PDF(ctx context.Context, inv Invoice) ([]byte, error) {
	if p.pdf == nil {
		return nil, ErrPDFDisabled
	}
	html, err := p.HTML(inv)
	if err != nil {
		return nil, err
	}
	return p.pdf.RenderPDF(ctx, string(html))
}
