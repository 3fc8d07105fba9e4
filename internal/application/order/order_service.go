package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/application/uow"
	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/glowstudio/backend/internal/domain/setting"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/printing"
	"github.com/glowstudio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Invoice formats
const (
	InvoiceHTML = "html"
	InvoicePDF  = "pdf"
)

var (
	errCartEmpty        = shared.NewDomainError("CART_EMPTY", "Your cart is empty")
	errDuplicateRequest = shared.NewDomainError("CONFLICT", "This checkout request was already submitted")
	errCouponUnknown    = shared.NewDomainError("COUPON_INVALID", "Coupon code is not valid")
)

// OrderService places orders and drives them through their lifecycle
type OrderService struct {
	tx       uow.TransactionScope
	orders   order.Repository
	users    identity.UserRepository
	settings setting.Reader
	idem     shared.IdempotencyStore
	idemTTL  time.Duration
	printer  *printing.InvoicePrinter
	metrics  *telemetry.BusinessMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// OrderServiceDeps groups the collaborators of OrderService
type OrderServiceDeps struct {
	Tx             uow.TransactionScope
	Orders         order.Repository
	Users          identity.UserRepository
	Settings       setting.Reader
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration
	Printer        *printing.InvoicePrinter
	Logger         *zap.Logger
}

// NewOrderService creates a new OrderService. Idempotency and Printer are optional.
func NewOrderService(deps OrderServiceDeps) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := deps.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &OrderService{
		tx:       deps.Tx,
		orders:   deps.Orders,
		users:    deps.Users,
		settings: deps.Settings,
		idem:     deps.Idempotency,
		idemTTL:  ttl,
		printer:  deps.Printer,
		logger:   logger,
		now:      time.Now,
	}
}

// SetBusinessMetrics enables order counters
func (s *OrderService) SetBusinessMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// quote is a priced cart ready to become an order
type quote struct {
	cart     *cart.Cart
	products map[uuid.UUID]*catalog.Product
	items    []order.Item
	pricing  order.Pricing
	coupon   *order.Coupon
}

// PreviewCheckout prices the caller's cart as checkout would, without writing
func (s *OrderService) PreviewCheckout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*PreviewResponse, error) {
	var q *quote
	err := s.tx.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		q, err = s.buildQuote(ctx, repos, userID, order.Fulfillment(req.Fulfillment), req.CouponCode, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Items:       make([]PreviewLine, 0, len(q.items)),
		Subtotal:    q.pricing.Subtotal.Amount(),
		Discount:    q.pricing.Discount.Amount(),
		DeliveryFee: q.pricing.DeliveryFee.Amount(),
		Total:       q.pricing.Total.Amount(),
	}
	for _, it := range q.items {
		resp.Items = append(resp.Items, PreviewLine{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2),
		})
	}
	if q.coupon != nil {
		resp.CouponCode = q.coupon.Code
	}
	return resp, nil
}

// Checkout turns the caller's cart into an order. Stock, coupon usage,
// the order insert and the cart reset commit together or not at all.
// A non-empty idempotencyKey that was already used returns CONFLICT.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, idempotencyKey string, req CheckoutRequest) (_ *OrderResponse, err error) {
	placement := order.Placement{
		UserID:          userID,
		Fulfillment:     order.Fulfillment(req.Fulfillment),
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.ContactPhone,
		Notes:           req.Notes,
	}
	if err := placement.Validate(); err != nil {
		return nil, err
	}

	if key := strings.TrimSpace(idempotencyKey); key != "" && s.idem != nil {
		scoped := "checkout:" + userID.String() + ":" + key
		first, markErr := s.idem.MarkProcessed(ctx, scoped, s.idemTTL)
		if markErr != nil {
			return nil, fmt.Errorf("idempotency check: %w", markErr)
		}
		if !first {
			return nil, errDuplicateRequest
		}
		defer func() {
			if err == nil {
				return
			}
			// the client may retry a failed checkout with the same key
			if relErr := s.idem.Release(context.WithoutCancel(ctx), scoped); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("key", scoped), zap.Error(relErr))
			}
		}()
	}

	var placed *order.Order
	err = s.tx.Execute(ctx, func(repos uow.Repositories) error {
		q, err := s.buildQuote(ctx, repos, userID, placement.Fulfillment, req.CouponCode, true)
		if err != nil {
			return err
		}

		for _, it := range q.items {
			if _, err := repos.Products().AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return insufficientStock(q.products[it.ProductID])
				}
				return err
			}
		}
		if q.coupon != nil {
			if err := repos.Coupons().ConsumeUse(ctx, q.coupon.ID); err != nil {
				return err
			}
		}

		o, err := order.NewOrder(placement, q.items, q.pricing, q.coupon)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}
		q.cart.Clear()
		if err := repos.Carts().Save(ctx, q.cart); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("number", placed.Number),
		zap.String("user_id", userID.String()),
		zap.String("total", placed.Total.StringFixed(2)),
	)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, string(placed.Fulfillment), placed.CouponID != nil, placed.Total)
	}
	r := ToOrderResponse(placed)
	return &r, nil
}

// buildQuote loads and prices the cart. With lock set the cart row and the
// product rows are locked for the rest of the transaction.
func (s *OrderService) buildQuote(
	ctx context.Context,
	repos uow.Repositories,
	userID uuid.UUID,
	fulfillment order.Fulfillment,
	couponCode string,
	lock bool,
) (*quote, error) {
	var (
		c   *cart.Cart
		err error
	)
	if lock {
		c, err = repos.Carts().FindByUserIDForUpdate(ctx, userID)
	} else {
		c, err = repos.Carts().FindByUserID(ctx, userID)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, errCartEmpty
	}
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, errCartEmpty
	}

	var products []catalog.Product
	if lock {
		products, err = repos.Products().FindByIDsForUpdate(ctx, c.ProductIDs())
	} else {
		products, err = repos.Products().FindByIDs(ctx, c.ProductIDs())
	}
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	q := &quote{cart: c, products: byID}
	lines := make([]order.PricingLine, 0, len(c.Items))
	for _, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsActive() {
			name := "A product in your cart"
			if ok {
				name = p.Name
			}
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", name+" is no longer available")
		}
		if !p.CanFulfill(it.Quantity) {
			return nil, insufficientStock(p)
		}
		q.items = append(q.items, order.NewItem(p.ID, p.Name, p.Price, it.Quantity))
		lines = append(lines, order.PricingLine{UnitPrice: p.Price, Quantity: it.Quantity})
	}

	if code := order.NormalizeCouponCode(couponCode); code != "" {
		q.coupon, err = repos.Coupons().FindByCode(ctx, code)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errCouponUnknown
		}
		if err != nil {
			return nil, err
		}
	}

	q.pricing, err = order.CalculatePricing(order.PricingInput{
		Lines:       lines,
		Coupon:      q.coupon,
		Fulfillment: fulfillment,
		Rates:       s.deliveryRates(ctx),
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *OrderService) deliveryRates(ctx context.Context) order.DeliveryRates {
	return order.DeliveryRates{
		Fee:           s.settings.Decimal(ctx, setting.KeyDeliveryFee, decimal.Zero),
		FreeThreshold: s.settings.Decimal(ctx, setting.KeyFreeDeliveryThreshold, decimal.Zero),
	}
}

func insufficientStock(p *catalog.Product) error {
	if p == nil {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock")
	}
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Only %d of %s left in stock", p.Stock, p.Name))
}

// ListMine lists the caller's own orders
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	return s.list(ctx, &userID, filter)
}

// ListAll lists every order for staff
func (s *OrderService) ListAll(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	return s.list(ctx, nil, filter)
}

func (s *OrderService) list(ctx context.Context, userID *uuid.UUID, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	query := order.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   strings.TrimSpace(filter.Search),
		},
		UserID: userID,
		From:   filter.From,
	}
	query.Normalize()
	if filter.To != nil {
		// the date is inclusive
		end := filter.To.AddDate(0, 0, 1)
		query.To = &end
	}
	if filter.Status != "" {
		status := order.Status(filter.Status)
		query.Status = &status
	}
	if filter.PaymentStatus != "" {
		ps := order.PaymentStatus(filter.PaymentStatus)
		query.PaymentStatus = &ps
	}

	orders, total, err := s.orders.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i]))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

// GetMine returns one of the caller's orders. Other users' orders are not found.
func (s *OrderService) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.owned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	r := ToOrderResponse(o)
	return &r, nil
}

// Get returns any order
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	r := ToOrderResponse(o)
	return &r, nil
}

func (s *OrderService) owned(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

// CancelMine lets a customer cancel their own order while it is still pending
func (s *OrderService) CancelMine(ctx context.Context, userID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.cancel(ctx, orderID, req.Reason, func(o *order.Order) error {
		if !o.IsOwnedBy(userID) {
			return shared.ErrNotFound
		}
		if o.Status != order.StatusPending {
			return shared.NewDomainError("INVALID_STATE", "Only pending orders can be cancelled, please contact us")
		}
		return nil
	})
}

// UpdateStatus moves an order along the status machine. Cancellation
// restores stock and the coupon use.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if target == order.StatusCancelled {
		return s.cancel(ctx, orderID, req.Reason, nil)
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	r := ToOrderResponse(o)
	return &r, nil
}

func (s *OrderService) cancel(ctx context.Context, orderID uuid.UUID, reason string, check func(*order.Order) error) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.tx.Execute(ctx, func(repos uow.Repositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(o); err != nil {
				return err
			}
		}
		if err := o.Cancel(reason); err != nil {
			return err
		}
		if err := repos.Orders().Update(ctx, o); err != nil {
			return err
		}
		for _, it := range o.Items {
			if _, err := repos.Products().AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					s.logger.Warn("Skipping stock restore for deleted product",
						zap.String("order_id", o.ID.String()),
						zap.String("product_id", it.ProductID.String()))
					continue
				}
				return err
			}
		}
		if o.CouponID != nil {
			if err := repos.Coupons().ReleaseUse(ctx, *o.CouponID); err != nil {
				return err
			}
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Order cancelled",
		zap.String("order_id", cancelled.ID.String()),
		zap.String("reason", cancelled.CancelReason),
	)
	r := ToOrderResponse(cancelled)
	return &r, nil
}

// MarkPaid records payment for an order
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.payment(ctx, orderID, (*order.Order).MarkPaid)
}

// MarkRefunded records a refund for a paid order
func (s *OrderService) MarkRefunded(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.payment(ctx, orderID, (*order.Order).MarkRefunded)
}

func (s *OrderService) payment(ctx context.Context, orderID uuid.UUID, apply func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(o); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order payment status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_status", string(o.PaymentStatus)),
	)
	r := ToOrderResponse(o)
	return &r, nil
}

// Invoice renders an order invoice. Customers only see their own orders.
// It returns the document and its content type.
func (s *OrderService) Invoice(ctx context.Context, requesterID uuid.UUID, isAdmin bool, orderID uuid.UUID, format string) ([]byte, string, error) {
	if s.printer == nil {
		return nil, "", shared.NewDomainError("INVOICE_UNAVAILABLE", "Invoices are not available")
	}
	var (
		o   *order.Order
		err error
	)
	if isAdmin {
		o, err = s.orders.FindByID(ctx, orderID)
	} else {
		o, err = s.owned(ctx, requesterID, orderID)
	}
	if err != nil {
		return nil, "", err
	}

	inv := printing.Invoice{
		Store: printing.StoreInfo{
			Name:     s.settings.String(ctx, setting.KeyStoreName, "Glow Studio"),
			Email:    s.settings.String(ctx, setting.KeyContactEmail, ""),
			Phone:    s.settings.String(ctx, setting.KeyContactPhone, ""),
			Address:  s.settings.String(ctx, setting.KeyAddress, ""),
			Currency: s.settings.String(ctx, setting.KeyCurrency, "USD"),
		},
		Order:    o,
		IssuedAt: s.now(),
	}
	if u, err := s.users.FindByID(ctx, o.UserID); err == nil {
		inv.CustomerName = u.FullName
		inv.CustomerEmail = u.Email
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, "", err
	}

	switch format {
	case InvoicePDF:
		doc, err := s.printer.PDF(ctx, inv)
		if errors.Is(err, printing.ErrPDFDisabled) {
			return nil, "", shared.NewDomainError("PDF_DISABLED", "PDF invoices are not enabled")
		}
		if err != nil {
			return nil, "", err
		}
		return doc, "application/pdf", nil
	default:
		doc, err := s.printer.HTML(inv)
		if err != nil {
			return nil, "", err
		}
		return doc, "text/html; charset=utf-8", nil
	}
}
