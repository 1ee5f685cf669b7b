// Package dto defines request and response types for the order service.
package dto

import "encoding/json"

// CreateOrderRequest captures a finalized sale from the register or a kiosk.
// TicketData is the full serialized payload (header, line orders, payments,
// transactions) stored and forwarded verbatim.
type CreateOrderRequest struct {
	TicketData    json.RawMessage `json:"ticket_data" validate:"required"`
	Items         json.RawMessage `json:"items"`
	LocationID    string          `json:"location_id" validate:"required"`
	OrderModeName string          `json:"order_mode_name"`
	TotalAmount   float64         `json:"total_amount" validate:"gte=0"`
	BusinessDate  string          `json:"business_date"`
	Source        string          `json:"source"`
}

// OrderResponse is the result of order creation.
type OrderResponse struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber string `json:"ticket_number"`
	QueueNumber  int    `json:"queue_number"`
	OrderStatus  string `json:"order_status"`
	SyncStatus   string `json:"sync_status"`
	BusinessDate string `json:"business_date"`
}

// TicketResponse is the external view of a stored ticket.
type TicketResponse struct {
	ID           string  `json:"id"`
	TicketNumber string  `json:"ticket_number"`
	QueueNumber  int     `json:"queue_number"`
	OrderStatus  string  `json:"order_status"`
	SyncStatus   string  `json:"sync_status"`
	SyncError    string  `json:"sync_error,omitempty"`
	TotalAmount  float64 `json:"total_amount"`
	BusinessDate string  `json:"business_date"`
	CreatedAt    int64   `json:"created_at"`
}
