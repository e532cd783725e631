// services/commission.go
//
// Commission and payout figures are evaluated at many call sites (order
// detail, owner lists, daily statistics, earnings) and there is no single
// ledger, so every site must go through Reconcile to get the same numbers
// from the same line-item facts. Persisted aggregates are treated as caches
// that may drift; drift is reported, never trusted.
package services

import (
	"log"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is the platform-wide commission percentage used
// when neither the order nor the restaurant carries a rate.
const DefaultCommissionRate = 15

var (
	defaultRate = decimal.NewFromInt(DefaultCommissionRate)

	// One currency minor unit of tolerance before a persisted aggregate
	// counts as drifted.
	driftTolerance = decimal.New(1, -2)
)

// Reconciliation holds the authoritative monetary figures for one order.
type Reconciliation struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Commission     decimal.Decimal `json:"commission"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	NetRevenue     decimal.Decimal `json:"netRevenue"`
	DriftDetected  bool            `json:"driftDetected"`
}

// DriftEvent carries everything an auditor needs when a persisted
// aggregate no longer matches the line-item facts.
type DriftEvent struct {
	OrderID              uint                `json:"orderId"`
	PersistedSubtotal    decimal.NullDecimal `json:"persistedSubtotal"`
	RecomputedSubtotal   decimal.Decimal     `json:"recomputedSubtotal"`
	PersistedCommission  decimal.NullDecimal `json:"persistedCommission"`
	RecomputedCommission decimal.Decimal     `json:"recomputedCommission"`
	RateUsed             decimal.Decimal     `json:"rateUsed"`
}

// DriftObserver receives drift events. Implementations must not block the
// caller; the read path continues with the reconciled figures regardless.
type DriftObserver interface {
	DriftDetected(ev DriftEvent)
}

// LogDriftObserver is the default observer: it writes drift findings to
// the process log for alerting to pick up.
type LogDriftObserver struct{}

func (LogDriftObserver) DriftDetected(ev DriftEvent) {
	log.Printf("drift detected: order=%d persistedSubtotal=%v recomputedSubtotal=%s persistedCommission=%v recomputedCommission=%s rate=%s",
		ev.OrderID, ev.PersistedSubtotal.Decimal, ev.RecomputedSubtotal,
		ev.PersistedCommission.Decimal, ev.RecomputedCommission, ev.RateUsed)
}

// ResolveCommissionRate applies the fixed priority order: order override,
// then restaurant rate, then the platform default. Reversing this order
// would silently mis-charge restaurants whose default rate changed after
// an order was placed.
func ResolveCommissionRate(orderRate, restaurantRate decimal.NullDecimal) decimal.Decimal {
	if orderRate.Valid {
		return orderRate.Decimal
	}
	if restaurantRate.Valid {
		return restaurantRate.Decimal
	}
	return defaultRate
}

// Reconcile recomputes an order's money figures from its line items.
//
// The subtotal is the sum over line items of round2(unitPrice × qty),
// taken unconditionally when at least one line item exists; the persisted
// subtotal is only a fallback for legacy orders with no items. Commission
// is always recomputed from the resolved rate, never read back, because a
// stored value may have been computed against a stale subtotal. Net
// revenue is clamped at zero to survive corrupt rates.
//
// Nothing here fails on dirty data: missing rates, missing items and
// negative nets all degrade. The second return value is non-nil when a
// persisted aggregate differs from the recomputed one by more than one
// minor unit; callers hand it to a DriftObserver and carry on.
func Reconcile(o *entity.Order, restaurantRate decimal.NullDecimal) (Reconciliation, *DriftEvent) {
	subtotal := decimal.Zero
	if len(o.Items) > 0 {
		for i := range o.Items {
			line := o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[i].Qty))).Round(2)
			subtotal = subtotal.Add(line)
		}
	} else if o.Subtotal.Valid {
		subtotal = o.Subtotal.Decimal
	}

	rate := ResolveCommissionRate(o.CommissionRate, restaurantRate)
	commission := subtotal.Mul(rate).Div(hundred).Round(2)

	net := subtotal.Sub(commission)
	if net.Sign() < 0 {
		net = decimal.Zero
	}

	drifted := false
	if len(o.Items) > 0 && o.Subtotal.Valid &&
		o.Subtotal.Decimal.Sub(subtotal).Abs().GreaterThan(driftTolerance) {
		drifted = true
	}
	if o.Commission.Valid &&
		o.Commission.Decimal.Sub(commission).Abs().GreaterThan(driftTolerance) {
		drifted = true
	}

	rec := Reconciliation{
		Subtotal:       subtotal,
		Commission:     commission,
		CommissionRate: rate,
		NetRevenue:     net,
		DriftDetected:  drifted,
	}
	if !drifted {
		return rec, nil
	}
	return rec, &DriftEvent{
		OrderID:              o.ID,
		PersistedSubtotal:    o.Subtotal,
		RecomputedSubtotal:   subtotal,
		PersistedCommission:  o.Commission,
		RecomputedCommission: commission,
		RateUsed:             rate,
	}
}

// EarningsBucket aggregates reconciled figures for one grouping key, e.g.
// one calendar day.
type EarningsBucket struct {
	Orders     int             `json:"orders"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Commission decimal.Decimal `json:"commission"`
	NetRevenue decimal.Decimal `json:"netRevenue"`
}

// ReconcileMany reconciles each order individually and sums the results
// per bucketKey. Summing persisted aggregates instead would bake drift
// into the statistics, so every order goes through Reconcile. Drift events
// are forwarded to obs when it is non-nil.
func ReconcileMany(orders []entity.Order, restaurantRate decimal.NullDecimal, bucketKey func(*entity.Order) string, obs DriftObserver) map[string]EarningsBucket {
	out := make(map[string]EarningsBucket)
	for i := range orders {
		o := &orders[i]
		rec, ev := Reconcile(o, restaurantRate)
		if ev != nil && obs != nil {
			obs.DriftDetected(*ev)
		}
		key := bucketKey(o)
		b := out[key]
		b.Orders++
		b.Subtotal = b.Subtotal.Add(rec.Subtotal)
		b.Commission = b.Commission.Add(rec.Commission)
		b.NetRevenue = b.NetRevenue.Add(rec.NetRevenue)
		out[key] = b
	}
	return out
}
