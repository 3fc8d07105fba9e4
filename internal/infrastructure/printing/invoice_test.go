package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7"), nil
}

func (f *fakePDF) Close() error { return nil }

func sampleInvoice() Invoice {
	o := &order.Order{
		Number:          "GS-20261017-ABCD",
		Items:           []order.Item{order.NewItem(uuid.New(), "Velvet Lipstick <Rose>", decimal.RequireFromString("19.90"), 2)},
		Subtotal:        decimal.RequireFromString("39.80"),
		Discount:        decimal.RequireFromString("3.98"),
		DeliveryFee:     decimal.RequireFromString("5.00"),
		Total:           decimal.RequireFromString("40.82"),
		CouponCode:      "GLOW10",
		Fulfillment:     order.FulfillmentPickup,
		DeliveryAddress: "",
		ContactPhone:    "+1 555 0100",
		Status:          order.StatusReadyForPickup,
		PaymentStatus:   order.PaymentPaid,
	}
	o.CreatedAt = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return Invoice{
		Store:         StoreInfo{Name: "Glow Studio", Email: "hello@glow.test", Currency: "USD"},
		Order:         o,
		CustomerName:  "Ada Customer",
		CustomerEmail: "ada@example.com",
		IssuedAt:      time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}
}

func TestInvoicePrinter_HTML(t *testing.T) {
	p := NewInvoicePrinter(nil)

	out, err := p.HTML(sampleInvoice())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "GLOW STUDIO")
	assert.Contains(t, html, "GS-20261017-ABCD")
	assert.Contains(t, html, "Issued 17 Oct 2026")
	assert.Contains(t, html, "Ready For Pickup")
	assert.Contains(t, html, "USD 39.80")
	assert.Contains(t, html, "-USD 3.98")
	assert.Contains(t, html, "(GLOW10)")
	assert.Contains(t, html, "USD 40.82")
	// product names are escaped
	assert.Contains(t, html, "Velvet Lipstick &lt;Rose&gt;")
	assert.False(t, p.PDFEnabled())
}

func TestInvoicePrinter_HTMLRequiresOrder(t *testing.T) {
	_, err := NewInvoicePrinter(nil).HTML(Invoice{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplateFailed, renderErr.Code)
}

func TestInvoicePrinter_PDF(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := NewInvoicePrinter(nil).PDF(context.Background(), sampleInvoice())
		assert.ErrorIs(t, err, ErrPDFDisabled)
	})

	t.Run("renders template through renderer", func(t *testing.T) {
		renderer := &fakePDF{}
		p := NewInvoicePrinter(renderer)
		pdf, err := p.PDF(context.Background(), sampleInvoice())
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(pdf))
		assert.Contains(t, renderer.html, "<!DOCTYPE html>")
		assert.True(t, p.PDFEnabled())
	})

	t.Run("renderer error propagates", func(t *testing.T) {
		boom := errors.New("chrome crashed")
		_, err := NewInvoicePrinter(&fakePDF{err: boom}).PDF(context.Background(), sampleInvoice())
		assert.ErrorIs(t, err, boom)
	})
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{NoSandbox: true})
	defer func() { _ = r.Close() }()

	_, err := r.RenderPDF(context.Background(), "   ")
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	assert.Equal(t, defaultChromeTimeout, r.timeout)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)
	assert.Equal(t, "chromedp execution failed: socket closed", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "empty", NewRenderError(ErrCodeInvalidHTML, "empty", nil).Error())
}
