// services/order_lifecycle.go
package services

import (
	"errors"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
)

// ActorRole identifies who asked for a status change. The state machine
// only uses it to gate privileged cancellation; ownership checks belong to
// the calling service.
type ActorRole string

const (
	RoleCustomer   ActorRole = "customer"
	RoleRestaurant ActorRole = "owner"
	RoleCourier    ActorRole = "courier"
	RoleAdmin      ActorRole = "admin"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTerminalState     = errors.New("order is already in a terminal state")
	ErrCancelForbidden   = errors.New("only the restaurant or an admin can cancel at this stage")
)

// allowedTransitions lists, per current status, the statuses an order may
// move to. Terminal states have no entry.
var allowedTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.StatusNew:        {entity.StatusAccepted, entity.StatusRefused, entity.StatusCancelled},
	entity.StatusPending:    {entity.StatusAccepted, entity.StatusRefused, entity.StatusCancelled},
	entity.StatusAccepted:   {entity.StatusPreparing, entity.StatusCancelled},
	entity.StatusPreparing:  {entity.StatusReady, entity.StatusCancelled},
	entity.StatusReady:      {entity.StatusAssigned, entity.StatusPickedUp, entity.StatusCancelled},
	entity.StatusAssigned:   {entity.StatusPickedUp, entity.StatusCancelled},
	entity.StatusPickedUp:   {entity.StatusDelivering, entity.StatusCancelled},
	entity.StatusDelivering: {entity.StatusDelivered, entity.StatusCancelled},
}

// Milestone columns stamped on first entry into a status.
const (
	colAcceptedAt   = "accepted_at"
	colPreparingAt  = "preparing_at"
	colReadyAt      = "ready_at"
	colAssignedAt   = "assigned_at"
	colPickedUpAt   = "picked_up_at"
	colDeliveringAt = "delivering_at"
	colDeliveredAt  = "delivered_at"
	colCancelledAt  = "cancelled_at"
	colRefusedAt    = "refused_at"
)

// TransitionResult is what a successful transition asks storage to
// persist: the new status plus any milestone timestamps to stamp. The
// state machine never writes anything itself.
type TransitionResult struct {
	Status entity.OrderStatus
	Stamps map[string]time.Time
}

// Transition validates a requested status change against the lifecycle
// table and returns what to persist. It fails with ErrTerminalState when
// the order can no longer move, ErrInvalidTransition when the requested
// status is not reachable from the current one, and ErrCancelForbidden
// when a non-privileged actor tries to cancel an order the restaurant has
// already accepted.
//
// Stamping is idempotent: a milestone that already carries a timestamp is
// left untouched.
func Transition(o *entity.Order, requested entity.OrderStatus, actor ActorRole, now time.Time) (*TransitionResult, error) {
	cur := o.Status
	if cur.Terminal() {
		return nil, ErrTerminalState
	}
	if !transitionAllowed(cur, requested) {
		return nil, ErrInvalidTransition
	}
	if requested == entity.StatusCancelled && cancelRestricted(cur) &&
		actor != RoleAdmin && actor != RoleRestaurant {
		return nil, ErrCancelForbidden
	}

	res := &TransitionResult{Status: requested, Stamps: map[string]time.Time{}}
	if col, stamped := milestoneFor(o, requested); col != "" && !stamped {
		res.Stamps[col] = now
	}
	return res, nil
}

func transitionAllowed(from, to entity.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// cancelRestricted reports whether cancelling from cur requires the
// restaurant or an admin. Before acceptance the customer may still back
// out on their own.
func cancelRestricted(cur entity.OrderStatus) bool {
	return cur != entity.StatusNew && cur != entity.StatusPending
}

// milestoneFor maps the entered status to its milestone column and
// whether the order already carries a stamp for it.
func milestoneFor(o *entity.Order, entered entity.OrderStatus) (string, bool) {
	switch entered {
	case entity.StatusAccepted:
		return colAcceptedAt, o.AcceptedAt != nil
	case entity.StatusPreparing:
		return colPreparingAt, o.PreparingAt != nil
	case entity.StatusReady:
		return colReadyAt, o.ReadyAt != nil
	case entity.StatusAssigned:
		return colAssignedAt, o.AssignedAt != nil
	case entity.StatusPickedUp:
		return colPickedUpAt, o.PickedUpAt != nil
	case entity.StatusDelivering:
		return colDeliveringAt, o.DeliveringAt != nil
	case entity.StatusDelivered:
		return colDeliveredAt, o.DeliveredAt != nil
	case entity.StatusCancelled:
		return colCancelledAt, o.CancelledAt != nil
	case entity.StatusRefused:
		return colRefusedAt, o.RefusedAt != nil
	}
	return "", false
}
