package ticket

import "fmt"

// OrderStatus tracks the fulfilment progress of a ticket on the floor.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderReady      OrderStatus = "READY"
	OrderCompleted  OrderStatus = "COMPLETED"
)

// ParseOrderStatus converts a stored string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderInProgress, OrderReady, OrderCompleted:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}

func (s OrderStatus) String() string {
	return string(s)
}
