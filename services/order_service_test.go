package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var svcDBSeq int

type fixture struct {
	db      *gorm.DB
	orders  *OrderService
	menus   *MenuService
	stats   *StatsService
	drift   *captureObserver
	owner   entity.User
	rest    entity.Restaurant
	noodles entity.Menu
	tea     entity.Menu
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svcDBSeq++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", svcDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Restaurant{}, &entity.Menu{},
		&entity.Order{}, &entity.OrderItem{}, &entity.Courier{},
	))

	f := &fixture{db: db, drift: &captureObserver{}}

	f.owner = entity.User{Email: "owner@test.local", Role: "owner"}
	require.NoError(t, db.Create(&f.owner).Error)

	f.rest = entity.Restaurant{Name: "Noodle House", UserID: f.owner.ID}
	require.NoError(t, db.Create(&f.rest).Error)

	f.noodles = entity.Menu{
		Name: "Boat Noodles", Price: d("120"), Available: true,
		RestaurantID: f.rest.ID,
		// 25% off, open window
		DiscountType:  DiscountPercentage,
		DiscountValue: decimal.NewNullDecimal(d("25")),
	}
	require.NoError(t, db.Create(&f.noodles).Error)

	f.tea = entity.Menu{
		Name: "Thai Tea", Price: d("45"), Available: true,
		RestaurantID: f.rest.ID,
	}
	require.NoError(t, db.Create(&f.tea).Error)

	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	userRepo := repository.NewUserRepository(db)

	f.orders = NewOrderService(db, orderRepo, menuRepo, restRepo, userRepo)
	f.orders.Drift = f.drift
	f.menus = NewMenuService(menuRepo, restRepo)
	f.stats = NewStatsService(orderRepo, restRepo)
	f.stats.Drift = f.drift
	return f
}

func (f *fixture) customer(t *testing.T) entity.User {
	t.Helper()
	u := entity.User{Email: fmt.Sprintf("cust%d@test.local", time.Now().UnixNano()), Role: "customer"}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) placeOrder(t *testing.T, userID uint) *CreateOrderRes {
	t.Helper()
	out, err := f.orders.Create(userID, &CreateOrderReq{
		RestaurantID: f.rest.ID,
		Address:      "42 Sukhumvit Rd",
		Items: []OrderItemIn{
			{MenuID: f.noodles.ID, Qty: 2},
			{MenuID: f.tea.ID, Qty: 1},
		},
	})
	require.NoError(t, err)
	return out
}

func TestCreateOrderSnapshotsPromotionalPrice(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)

	out := f.placeOrder(t, cust.ID)

	// 120 at 25% off -> 90 each; 90*2 + 45 = 225
	assert.True(t, out.Subtotal.Equal(d("225")), "got %s", out.Subtotal)

	items, err := f.orders.Repo.GetOrderItems(out.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	byName := map[string]entity.OrderItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	assert.True(t, byName["Boat Noodles"].UnitPrice.Equal(d("90")))
	assert.True(t, byName["Thai Tea"].UnitPrice.Equal(d("45")))
}

func TestOrderDetailReconciles(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)
	out := f.placeOrder(t, cust.ID)

	detail, err := f.orders.DetailForUser(cust.ID, out.ID)
	require.NoError(t, err)
	assert.True(t, detail.Money.Subtotal.Equal(d("225")))
	assert.True(t, detail.Money.Commission.Equal(d("33.75")), "got %s", detail.Money.Commission)
	assert.True(t, detail.Money.NetRevenue.Equal(d("191.25")))
	assert.False(t, detail.Money.DriftDetected)
	assert.Empty(t, f.drift.events)
}

func TestOrderDetailReportsAndRepairsDrift(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)
	out := f.placeOrder(t, cust.ID)

	// corrupt the cached aggregate behind the service's back
	require.NoError(t, f.db.Model(&entity.Order{}).
		Where("id = ?", out.ID).
		Update("subtotal", d("999")).Error)

	detail, err := f.orders.DetailForUser(cust.ID, out.ID)
	require.NoError(t, err)

	// the response carries reconciled figures, not the corrupt cache
	assert.True(t, detail.Money.Subtotal.Equal(d("225")))
	assert.True(t, detail.Money.DriftDetected)
	require.Len(t, f.drift.events, 1)
	assert.Equal(t, out.ID, f.drift.events[0].OrderID)
	assert.True(t, f.drift.events[0].PersistedSubtotal.Decimal.Equal(d("999")))

	// best-effort cache refresh happened
	var o entity.Order
	require.NoError(t, f.db.First(&o, out.ID).Error)
	require.True(t, o.Subtotal.Valid)
	assert.True(t, o.Subtotal.Decimal.Equal(d("225")))
}

func TestOwnerStatusFlow(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)
	out := f.placeOrder(t, cust.ID)

	o, err := f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, entity.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, o.Status)
	require.NotNil(t, o.AcceptedAt)

	o, err = f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, entity.StatusPreparing)
	require.NoError(t, err)
	o, err = f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, entity.StatusReady)
	require.NoError(t, err)
	require.NotNil(t, o.ReadyAt)

	// skipping ahead is rejected
	_, err = f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, entity.StatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// a stranger cannot drive the order
	stranger := f.customer(t)
	_, err = f.orders.OwnerUpdateStatus(stranger.ID, out.ID, entity.StatusCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCustomerCancelOnlyWhilePending(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)

	out := f.placeOrder(t, cust.ID)
	o, err := f.orders.CustomerCancel(cust.ID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, o.Status)
	require.NotNil(t, o.CancelledAt)

	// once accepted, the customer is locked out but the owner is not
	out = f.placeOrder(t, cust.ID)
	_, err = f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, entity.StatusAccepted)
	require.NoError(t, err)
	_, err = f.orders.CustomerCancel(cust.ID, out.ID)
	assert.ErrorIs(t, err, ErrCancelForbidden)
	o, err = f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, entity.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, o.Status)
}

func TestCourierFlow(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)
	out := f.placeOrder(t, cust.ID)

	courierUser := entity.User{Email: "rider@test.local", Role: "courier"}
	require.NoError(t, f.db.Create(&courierUser).Error)
	courier := entity.Courier{UserID: courierUser.ID, Available: true}
	require.NoError(t, f.db.Create(&courier).Error)

	for _, st := range []entity.OrderStatus{entity.StatusAccepted, entity.StatusPreparing, entity.StatusReady} {
		_, err := f.orders.OwnerUpdateStatus(f.owner.ID, out.ID, st)
		require.NoError(t, err)
	}

	o, err := f.orders.CourierClaim(courierUser.ID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAssigned, o.Status)
	require.NotNil(t, o.CourierID)
	assert.Equal(t, courier.ID, *o.CourierID)

	for _, st := range []entity.OrderStatus{entity.StatusPickedUp, entity.StatusDelivering, entity.StatusDelivered} {
		o, err = f.orders.CourierUpdateStatus(courierUser.ID, out.ID, st)
		require.NoError(t, err)
	}
	assert.Equal(t, entity.StatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)

	// terminal now
	_, err = f.orders.AdminUpdateStatus(out.ID, entity.StatusCancelled)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestEarningsUsesReconciledFigures(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t)
	out := f.placeOrder(t, cust.ID)

	// drive to delivered via admin shortcut transitions
	for _, st := range []entity.OrderStatus{
		entity.StatusAccepted, entity.StatusPreparing, entity.StatusReady,
		entity.StatusPickedUp, entity.StatusDelivering, entity.StatusDelivered,
	} {
		_, err := f.orders.AdminUpdateStatus(out.ID, st)
		require.NoError(t, err)
	}

	// corrupt the cache; earnings must not notice
	require.NoError(t, f.db.Model(&entity.Order{}).
		Where("id = ?", out.ID).
		Update("subtotal", d("10")).Error)

	now := time.Now()
	sum, err := f.stats.Earnings(f.owner.ID, f.rest.ID, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Orders)
	assert.True(t, sum.Subtotal.Equal(d("225")), "got %s", sum.Subtotal)
	assert.True(t, sum.Commission.Equal(d("33.75")))
	assert.True(t, sum.NetRevenue.Equal(d("191.25")))
	require.Len(t, sum.Days, 1)
	assert.NotEmpty(t, f.drift.events, "corrupt cache reported")
}

func TestPromotionAuthoring(t *testing.T) {
	f := newFixture(t)

	// valid percentage
	err := f.menus.SetPromotion(f.owner.ID, f.tea.ID, DiscountPercentage, d("10"), nil, nil)
	require.NoError(t, err)

	views, err := f.menus.ListForCustomer(f.rest.ID, time.Now())
	require.NoError(t, err)
	var teaView *MenuView
	for i := range views {
		if views[i].ID == f.tea.ID {
			teaView = &views[i]
		}
	}
	require.NotNil(t, teaView)
	assert.True(t, teaView.Quote.EffectivePrice.Equal(d("40.5")), "got %s", teaView.Quote.EffectivePrice)

	// the four validation kinds surface verbatim
	assert.ErrorIs(t, f.menus.SetPromotion(f.owner.ID, f.tea.ID, "loyalty", d("10"), nil, nil), ErrInvalidDiscountType)
	assert.ErrorIs(t, f.menus.SetPromotion(f.owner.ID, f.tea.ID, DiscountPercentage, d("0"), nil, nil), ErrInvalidDiscountValue)
	assert.ErrorIs(t, f.menus.SetPromotion(f.owner.ID, f.tea.ID, DiscountPercentage, d("100"), nil, nil), ErrInvalidPercentage)
	assert.ErrorIs(t, f.menus.SetPromotion(f.owner.ID, f.tea.ID, DiscountFixedAmount, d("45"), nil, nil), ErrInvalidFixedAmount)

	// clearing restores the base price
	require.NoError(t, f.menus.ClearPromotion(f.owner.ID, f.tea.ID))
	views, err = f.menus.ListForCustomer(f.rest.ID, time.Now())
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == f.tea.ID {
			assert.True(t, v.Quote.EffectivePrice.Equal(d("45")))
			assert.False(t, v.Quote.PromoActive)
		}
	}
}

func TestExpiredPromotionDegradesWithoutClearing(t *testing.T) {
	f := newFixture(t)

	past := time.Now().Add(-48 * time.Hour)
	end := time.Now().Add(-24 * time.Hour)
	require.NoError(t, f.menus.SetPromotion(f.owner.ID, f.tea.ID, DiscountPercentage, d("50"), &past, &end))

	views, err := f.menus.ListForCustomer(f.rest.ID, time.Now())
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == f.tea.ID {
			assert.True(t, v.Quote.EffectivePrice.Equal(d("45")), "expired promo must not price")
		}
	}

	// descriptor is still stored, only the evaluation degrades
	m, err := f.menus.Repo.FindByID(f.tea.ID)
	require.NoError(t, err)
	assert.Equal(t, DiscountPercentage, m.DiscountType)
}
