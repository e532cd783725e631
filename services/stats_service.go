package services

import (
	"sort"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/shopspring/decimal"
)

// StatsService serves the owner dashboard: daily order statistics and
// earnings summaries. Every figure goes through Reconcile so the dashboard
// can never disagree with the order detail screen.
type StatsService struct {
	Repo     *repository.OrderRepository
	RestRepo *repository.RestaurantRepository
	Drift    DriftObserver
}

func NewStatsService(repo *repository.OrderRepository, restRepo *repository.RestaurantRepository) *StatsService {
	return &StatsService{Repo: repo, RestRepo: restRepo, Drift: LogDriftObserver{}}
}

type DailyEarnings struct {
	Date       string          `json:"date"`
	Orders     int             `json:"orders"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Commission decimal.Decimal `json:"commission"`
	NetRevenue decimal.Decimal `json:"netRevenue"`
}

type EarningsSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Orders     int             `json:"orders"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Commission decimal.Decimal `json:"commission"`
	NetRevenue decimal.Decimal `json:"netRevenue"`
	Days       []DailyEarnings `json:"days"`
}

func byDay(o *entity.Order) string {
	return o.CreatedAt.Format("2006-01-02")
}

// Earnings sums what the restaurant is owed for delivered orders placed in
// [from, to), bucketed per calendar day, newest day first.
func (s *StatsService) Earnings(ownerID, restID uint, from, to time.Time) (*EarningsSummary, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	orders, err := s.Repo.ListOrdersForRestaurantBetween(restID, from, to,
		[]entity.OrderStatus{entity.StatusDelivered})
	if err != nil {
		return nil, err
	}

	rate, err := s.RestRepo.GetCommissionRate(restID)
	if err != nil {
		rate = decimal.NullDecimal{}
	}

	buckets := ReconcileMany(orders, rate, byDay, s.Drift)

	out := &EarningsSummary{From: from, To: to}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	for _, k := range keys {
		b := buckets[k]
		out.Orders += b.Orders
		out.Subtotal = out.Subtotal.Add(b.Subtotal)
		out.Commission = out.Commission.Add(b.Commission)
		out.NetRevenue = out.NetRevenue.Add(b.NetRevenue)
		out.Days = append(out.Days, DailyEarnings{
			Date:       k,
			Orders:     b.Orders,
			Subtotal:   b.Subtotal,
			Commission: b.Commission,
			NetRevenue: b.NetRevenue,
		})
	}
	return out, nil
}

type DailyStats struct {
	Date      string          `json:"date"`
	Orders    int             `json:"orders"`
	Delivered int             `json:"delivered"`
	Cancelled int             `json:"cancelled"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// DailyOrders counts all orders per day regardless of outcome, with the
// reconciled subtotal volume.
func (s *StatsService) DailyOrders(ownerID, restID uint, from, to time.Time) ([]DailyStats, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	orders, err := s.Repo.ListOrdersForRestaurantBetween(restID, from, to, nil)
	if err != nil {
		return nil, err
	}
	rate, err := s.RestRepo.GetCommissionRate(restID)
	if err != nil {
		rate = decimal.NullDecimal{}
	}

	byDate := make(map[string]*DailyStats)
	for i := range orders {
		o := &orders[i]
		rec, ev := Reconcile(o, rate)
		if ev != nil && s.Drift != nil {
			s.Drift.DriftDetected(*ev)
		}
		k := byDay(o)
		d := byDate[k]
		if d == nil {
			d = &DailyStats{Date: k}
			byDate[k] = d
		}
		d.Orders++
		switch o.Status {
		case entity.StatusDelivered:
			d.Delivered++
		case entity.StatusCancelled, entity.StatusRefused:
			d.Cancelled++
		}
		d.Subtotal = d.Subtotal.Add(rec.Subtotal)
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	out := make([]DailyStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byDate[k])
	}
	return out, nil
}

// AuditDrift reconciles recent orders across all restaurants and returns
// those whose persisted aggregates no longer match the line items. Admin
// tooling; figures are reported, never corrected in place beyond the
// best-effort cache refresh done by the order read paths.
func (s *StatsService) AuditDrift(limit int) ([]DriftEvent, error) {
	orders, err := s.Repo.ListRecentWithItems(limit)
	if err != nil {
		return nil, err
	}
	events := make([]DriftEvent, 0)
	rates := make(map[uint]decimal.NullDecimal)
	for i := range orders {
		o := &orders[i]
		rate, ok := rates[o.RestaurantID]
		if !ok {
			rate, err = s.RestRepo.GetCommissionRate(o.RestaurantID)
			if err != nil {
				rate = decimal.NullDecimal{}
			}
			rates[o.RestaurantID] = rate
		}
		if _, ev := Reconcile(o, rate); ev != nil {
			events = append(events, *ev)
		}
	}
	return events, nil
}
