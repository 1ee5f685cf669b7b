package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between domain tickets and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToDomains(rows []models.TicketModel) ([]*ticket.Ticket, error)
}

type ticketMapper struct{}

func NewTicketMapper() TicketMapper {
	return &ticketMapper{}
}

func (m *ticketMapper) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:            t.ID(),
		TicketNumber:  t.TicketNumber(),
		TicketData:    datatypes.JSON(t.TicketData()),
		SyncStatus:    t.SyncStatus().String(),
		SyncError:     t.SyncError(),
		SyncAttempts:  t.SyncAttempts(),
		OrderStatus:   t.OrderStatus().String(),
		LocationID:    t.LocationID(),
		OrderModeName: t.OrderModeName(),
		TotalAmount:   t.TotalAmount(),
		QueueNumber:   t.QueueNumber(),
		BusinessDate:  t.BusinessDate(),
		CreatedAt:     timeToMilli(t.CreatedAt()),
		UpdatedAt:     timeToMilli(t.UpdatedAt()),
		SyncedAt:      timePtrToMilliPtr(t.SyncedAt()),
	}
}

func (m *ticketMapper) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	syncStatus, err := shared.ParseSyncStatus(model.SyncStatus)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", model.ID, err)
	}
	orderStatus, err := ticket.ParseOrderStatus(model.OrderStatus)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.TicketNumber,
		[]byte(model.TicketData),
		syncStatus,
		model.SyncError,
		model.SyncAttempts,
		orderStatus,
		model.LocationID,
		model.OrderModeName,
		model.TotalAmount,
		model.QueueNumber,
		model.BusinessDate,
		milliToTime(model.CreatedAt),
		milliToTime(model.UpdatedAt),
		milliPtrToTimePtr(model.SyncedAt),
	)
}

func (m *ticketMapper) ToDomains(rows []models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, len(rows))
	for i := range rows {
		t, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		tickets[i] = t
	}
	return tickets, nil
}
