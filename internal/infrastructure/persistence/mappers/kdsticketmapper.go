package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/slatepos/slate/internal/domain/kitchen"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// KDSTicketMapper handles the conversion between kitchen work items and models.
type KDSTicketMapper interface {
	ToModel(k *kitchen.KDSTicket) *models.KDSTicketModel
	ToDomain(model *models.KDSTicketModel) (*kitchen.KDSTicket, error)
	ToDomains(rows []models.KDSTicketModel) ([]*kitchen.KDSTicket, error)
}

type kdsTicketMapper struct{}

func NewKDSTicketMapper() KDSTicketMapper {
	return &kdsTicketMapper{}
}

func (m *kdsTicketMapper) ToModel(k *kitchen.KDSTicket) *models.KDSTicketModel {
	return &models.KDSTicketModel{
		ID:            k.ID(),
		TicketNumber:  k.TicketNumber(),
		OrderID:       k.OrderID(),
		LocationID:    k.LocationID(),
		OrderModeName: k.OrderModeName(),
		Status:        k.Status().String(),
		Items:         datatypes.JSON(k.Items()),
		TotalAmount:   k.TotalAmount(),
		TokenNumber:   k.TokenNumber(),
		CreatedAt:     timeToMilli(k.CreatedAt()),
		UpdatedAt:     timeToMilli(k.UpdatedAt()),
	}
}

func (m *kdsTicketMapper) ToDomain(model *models.KDSTicketModel) (*kitchen.KDSTicket, error) {
	status, err := kitchen.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("kds ticket %s: %w", model.ID, err)
	}

	return kitchen.ReconstructKDSTicket(
		model.ID,
		model.TicketNumber,
		model.OrderID,
		model.LocationID,
		model.OrderModeName,
		status,
		[]byte(model.Items),
		model.TotalAmount,
		model.TokenNumber,
		milliToTime(model.CreatedAt),
		milliToTime(model.UpdatedAt),
	)
}

func (m *kdsTicketMapper) ToDomains(rows []models.KDSTicketModel) ([]*kitchen.KDSTicket, error) {
	items := make([]*kitchen.KDSTicket, len(rows))
	for i := range rows {
		k, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		items[i] = k
	}
	return items, nil
}
