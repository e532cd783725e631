package entity

// OrderStatus is the lifecycle state of an order. Transitions between
// states are governed by services.Transition; nothing else may move an
// order from one status to another.
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusAssigned   OrderStatus = "assigned"
	StatusPickedUp   OrderStatus = "picked_up"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefused    OrderStatus = "refused"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefused:
		return true
	}
	return false
}
