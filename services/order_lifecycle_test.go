package services

import (
	"testing"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderIn(status entity.OrderStatus) *entity.Order {
	return &entity.Order{Status: status}
}

func TestTransitionTable(t *testing.T) {
	now := time.Now()

	allowed := []struct {
		from, to entity.OrderStatus
	}{
		{entity.StatusNew, entity.StatusAccepted},
		{entity.StatusNew, entity.StatusRefused},
		{entity.StatusNew, entity.StatusCancelled},
		{entity.StatusPending, entity.StatusAccepted},
		{entity.StatusPending, entity.StatusRefused},
		{entity.StatusPending, entity.StatusCancelled},
		{entity.StatusAccepted, entity.StatusPreparing},
		{entity.StatusPreparing, entity.StatusReady},
		{entity.StatusReady, entity.StatusAssigned},
		{entity.StatusReady, entity.StatusPickedUp},
		{entity.StatusAssigned, entity.StatusPickedUp},
		{entity.StatusPickedUp, entity.StatusDelivering},
		{entity.StatusDelivering, entity.StatusDelivered},
	}
	for _, tt := range allowed {
		res, err := Transition(orderIn(tt.from), tt.to, RoleAdmin, now)
		require.NoError(t, err, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.to, res.Status)
	}

	denied := []struct {
		from, to entity.OrderStatus
	}{
		{entity.StatusReady, entity.StatusAccepted}, // no going back
		{entity.StatusNew, entity.StatusPreparing},
		{entity.StatusNew, entity.StatusDelivered},
		{entity.StatusAccepted, entity.StatusReady},
		{entity.StatusAssigned, entity.StatusDelivering},
		{entity.StatusDelivering, entity.StatusPickedUp},
		{entity.StatusPending, entity.StatusPending}, // self transition
	}
	for _, tt := range denied {
		_, err := Transition(orderIn(tt.from), tt.to, RoleAdmin, now)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionFromTerminalState(t *testing.T) {
	now := time.Now()
	terminals := []entity.OrderStatus{
		entity.StatusDelivered, entity.StatusCancelled, entity.StatusRefused,
	}
	requests := []entity.OrderStatus{
		entity.StatusNew, entity.StatusPending, entity.StatusAccepted,
		entity.StatusPreparing, entity.StatusReady, entity.StatusAssigned,
		entity.StatusPickedUp, entity.StatusDelivering, entity.StatusDelivered,
		entity.StatusCancelled, entity.StatusRefused,
	}
	for _, from := range terminals {
		for _, to := range requests {
			_, err := Transition(orderIn(from), to, RoleAdmin, now)
			assert.ErrorIs(t, err, ErrTerminalState, "%s -> %s", from, to)
		}
	}
}

func TestCancelPrivileges(t *testing.T) {
	now := time.Now()

	// before acceptance the customer may cancel on their own
	_, err := Transition(orderIn(entity.StatusPending), entity.StatusCancelled, RoleCustomer, now)
	assert.NoError(t, err)

	// past acceptance only the restaurant or an admin may cancel
	for _, from := range []entity.OrderStatus{
		entity.StatusAccepted, entity.StatusPreparing, entity.StatusReady,
		entity.StatusAssigned, entity.StatusPickedUp, entity.StatusDelivering,
	} {
		_, err := Transition(orderIn(from), entity.StatusCancelled, RoleCustomer, now)
		assert.ErrorIs(t, err, ErrCancelForbidden, "customer cancel from %s", from)

		_, err = Transition(orderIn(from), entity.StatusCancelled, RoleCourier, now)
		assert.ErrorIs(t, err, ErrCancelForbidden, "courier cancel from %s", from)

		_, err = Transition(orderIn(from), entity.StatusCancelled, RoleRestaurant, now)
		assert.NoError(t, err, "restaurant cancel from %s", from)

		_, err = Transition(orderIn(from), entity.StatusCancelled, RoleAdmin, now)
		assert.NoError(t, err, "admin cancel from %s", from)
	}
}

func TestTransitionStampsMilestones(t *testing.T) {
	now := time.Now()

	res, err := Transition(orderIn(entity.StatusPending), entity.StatusAccepted, RoleRestaurant, now)
	require.NoError(t, err)
	require.Contains(t, res.Stamps, "accepted_at")
	assert.Equal(t, now, res.Stamps["accepted_at"])

	res, err = Transition(orderIn(entity.StatusDelivering), entity.StatusDelivered, RoleCourier, now)
	require.NoError(t, err)
	require.Contains(t, res.Stamps, "delivered_at")

	res, err = Transition(orderIn(entity.StatusPreparing), entity.StatusReady, RoleRestaurant, now)
	require.NoError(t, err)
	require.Contains(t, res.Stamps, "ready_at")
}

func TestTransitionStampIsIdempotent(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	// order that already carries an accepted milestone keeps it
	o := orderIn(entity.StatusPending)
	o.AcceptedAt = &earlier
	res, err := Transition(o, entity.StatusAccepted, RoleRestaurant, now)
	require.NoError(t, err)
	assert.NotContains(t, res.Stamps, "accepted_at")
	assert.Empty(t, res.Stamps)
}

func TestTransitionNeverPersists(t *testing.T) {
	now := time.Now()
	o := orderIn(entity.StatusPending)

	res, err := Transition(o, entity.StatusAccepted, RoleRestaurant, now)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, res.Status)
	// the order itself is untouched; persisting is the caller's job
	assert.Equal(t, entity.StatusPending, o.Status)
	assert.Nil(t, o.AcceptedAt)
}
