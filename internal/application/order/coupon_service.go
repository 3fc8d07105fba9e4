package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CouponService manages discount codes
type CouponService struct {
	coupons order.CouponRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons order.CouponRepository, logger *zap.Logger) *CouponService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponService{coupons: coupons, logger: logger, now: time.Now}
}

// List returns coupons, optionally searching by code
func (s *CouponService) List(ctx context.Context, filter CouponListFilter) (shared.Paginated[CouponResponse], error) {
	query := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, Search: strings.TrimSpace(filter.Search)}
	query.Normalize()
	coupons, total, err := s.coupons.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[CouponResponse]{}, err
	}
	items := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		items = append(items, ToCouponResponse(&coupons[i]))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

// Get returns a coupon by ID
func (s *CouponService) Get(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r := ToCouponResponse(c)
	return &r, nil
}

// Create adds a coupon. Codes are unique ignoring case.
func (s *CouponService) Create(ctx context.Context, req CouponRequest) (*CouponResponse, error) {
	if err := s.ensureCodeFree(ctx, req.Code, nil); err != nil {
		return nil, err
	}
	c, err := order.NewCoupon(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Coupon created", zap.String("code", c.Code))
	r := ToCouponResponse(c)
	return &r, nil
}

// Update replaces a coupon's editable fields. The used count is kept.
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req CouponRequest) (*CouponResponse, error) {
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, req.Code, &id); err != nil {
		return nil, err
	}
	if err := c.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	r := ToCouponResponse(c)
	return &r, nil
}

// Delete removes a coupon. Orders keep the code they were placed with.
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.coupons.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Coupon deleted", zap.String("coupon_id", id.String()))
	return nil
}

func (s *CouponService) ensureCodeFree(ctx context.Context, code string, excludeID *uuid.UUID) error {
	exists, err := s.coupons.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A coupon with this code already exists")
	}
	return nil
}

// Validate checks a code against a subtotal for the storefront. A code that
// cannot be applied is reported in the response rather than as an error.
func (s *CouponService) Validate(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	code := order.NormalizeCouponCode(req.Code)
	resp := &ValidateCouponResponse{Code: code, Discount: valueobject.Zero().Amount()}

	c, err := s.coupons.FindByCode(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		resp.ReasonCode = errCouponUnknown.Code
		resp.Reason = errCouponUnknown.Message
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	subtotal := valueobject.NewMoney(req.Subtotal)
	if err := c.CheckRedeemable(subtotal, s.now()); err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			resp.ReasonCode = de.Code
			resp.Reason = de.Message
			return resp, nil
		}
		return nil, err
	}
	resp.Valid = true
	resp.Discount = c.DiscountFor(subtotal).Amount()
	return resp, nil
}
