package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/customer"
	domevent "github.com/Zhima-Mochi/minishop-checkout/internal/domain/event"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/shipping"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability/logctx"
	"github.com/Zhima-Mochi/minishop-checkout/internal/pkg/clock"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName     = "checkout-service"
	useCaseCheckout = "checkout.settle"
	spanPrefix      = "UC."
	publishPeer     = "bus"
	publishEndpoint = "checkout.completed"
	publishTimeout  = 300 * time.Millisecond
)

var (
	ErrEmptyCart           = errors.New("checkout: cart is empty")
	ErrProductExpired      = errors.New("checkout: product expired")
	ErrInsufficientStock   = errors.New("checkout: insufficient stock")
	ErrInsufficientBalance = customer.ErrInsufficientBalance
)

// ReceiptLine is one settled cart line.
type ReceiptLine struct {
	Quantity int
	Name     string
	Amount   float64
}

// Receipt describes a committed checkout.
type Receipt struct {
	Lines       []ReceiptLine
	Subtotal    float64
	ShippingFee float64
	Total       float64
	BalanceLeft float64
	Shipment    shipping.Shipment
}

// Service runs the checkout pipeline: validate, price, ship, settle. The
// section from re-validation through commit holds an exclusive lock so two
// checkouts against the same products or customer cannot both pass their
// stock and balance checks.
type Service struct {
	mu        sync.Mutex
	clk       clock.Clock
	publisher domevent.Publisher
	tel       observability.Observability

	// Base logger with fixed fields prebound (vendor must remain hidden).
	log          observability.Logger
	reqCounter   observability.Counter
	durHistogram observability.Histogram
	extCounter   observability.Counter
	extHistogram observability.Histogram
}

// NewService wires the dependencies required to execute checkouts. A nil
// clock means wall time, a nil publisher disables events, nil telemetry
// falls back to no-ops.
func NewService(clk clock.Clock, publisher domevent.Publisher, tel observability.Observability) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if tel == nil {
		tel = observability.Nop()
	}
	baseLog := tel.Logger().With(observability.F("service", serviceName))
	metrics := tel.Metrics()

	return &Service{
		clk:          clk,
		publisher:    publisher,
		tel:          tel,
		log:          baseLog,
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

// Checkout settles the cart against the customer's balance.
//
// Validation order: empty-cart gate, per-line re-validation (expiry and stock
// may have changed since Add), pricing, shipping, balance gate, then the
// commit point (withdraw + stock reduction, in cart order). No state is
// mutated before the commit point, so any failure leaves cart, stock, and
// balance untouched. The cart is cleared at commit; a second call on the same
// cart fails with ErrEmptyCart.
func (s *Service) Checkout(ctx context.Context, cust *customer.Customer, crt *cart.Cart) (_ *Receipt, err error) {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCaseCheckout))

	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+"Checkout",
		attribute.String("use_case", useCaseCheckout),
		attribute.String("checkout.customer", cust.Name()),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var publishErr error

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		if s.reqCounter != nil {
			s.reqCounter.Add(1,
				observability.L("use_case", useCaseCheckout),
				observability.L("outcome", outcome),
			)
		}
		if s.durHistogram != nil {
			s.durHistogram.Observe(lat,
				observability.L("use_case", useCaseCheckout),
			)
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if crt.IsEmpty() {
		outcome, statusText = "error", "EMPTY_CART"
		return nil, ErrEmptyCart
	}
	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	for p, qty := range crt.Lines() {
		if p.IsExpired(now) {
			outcome, statusText = "error", "PRODUCT_EXPIRED"
			return nil, fmt.Errorf("%w before checkout: %s", ErrProductExpired, p.Name())
		}
		if qty > p.Stock() {
			outcome, statusText = "error", "INSUFFICIENT_STOCK"
			return nil, fmt.Errorf("%w: not enough %s", ErrInsufficientStock, p.Name())
		}
	}

	receipt := &Receipt{Lines: make([]ReceiptLine, 0, crt.Len())}
	for p, qty := range crt.Lines() {
		amount := p.Price() * float64(qty)
		receipt.Lines = append(receipt.Lines, ReceiptLine{Quantity: qty, Name: p.Name(), Amount: amount})
		receipt.Subtotal += amount
	}

	receipt.Shipment = shipping.Compute(crt.Lines())
	receipt.ShippingFee = receipt.Shipment.Fee
	receipt.Total = receipt.Subtotal + receipt.ShippingFee

	// Commit point: withdraw first, then reduce stock in cart order. The
	// balance gate is the withdraw itself; quantities were re-validated
	// above under the same lock, so the reductions cannot fail.
	if err := cust.Withdraw(receipt.Total); err != nil {
		outcome, statusText = "error", "INSUFFICIENT_BALANCE"
		return nil, err
	}
	for p, qty := range crt.Lines() {
		if rerr := p.ReduceStock(qty); rerr != nil {
			outcome, statusText = "error", "SETTLE_FAILED"
			return nil, fmt.Errorf("checkout: settle: %w", rerr)
		}
	}
	receipt.BalanceLeft = cust.Balance()
	crt.Clear()

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		pubStart := time.Now()
		pubOutcome := "success"

		publishErr = s.publisher.Publish(pubCtx, NewCompletedEvent(cust.Name(), receipt, s.clk.Now()))
		if publishErr != nil {
			pubOutcome = "error"
			statusText = "EVENT_PUBLISH_FAILED"
		}
		cancel()

		if s.extCounter != nil {
			s.extCounter.Add(1,
				observability.L("peer", publishPeer),
				observability.L("endpoint", publishEndpoint),
				observability.L("outcome", pubOutcome),
			)
		}
		if s.extHistogram != nil {
			s.extHistogram.Observe(time.Since(pubStart).Seconds(),
				observability.L("peer", publishPeer),
				observability.L("endpoint", publishEndpoint),
			)
		}
	}

	span.SetAttributes(
		attribute.Float64("checkout.subtotal", receipt.Subtotal),
		attribute.Float64("checkout.shipping_fee", receipt.ShippingFee),
		attribute.Float64("checkout.total", receipt.Total),
	)
	span.AddEvent("checkout.committed",
		trace.WithAttributes(
			attribute.Int("checkout.lines", len(receipt.Lines)),
		),
	)

	return receipt, nil
}
