package mappers

import (
	"fmt"

	"github.com/slatepos/slate/internal/domain/queue"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// QueueTokenMapper handles the conversion between queue tokens and models.
type QueueTokenMapper interface {
	ToModel(t *queue.Token) *models.QueueTokenModel
	ToDomain(model *models.QueueTokenModel) (*queue.Token, error)
	ToDomains(rows []models.QueueTokenModel) ([]*queue.Token, error)
}

type queueTokenMapper struct{}

func NewQueueTokenMapper() QueueTokenMapper {
	return &queueTokenMapper{}
}

func (m *queueTokenMapper) ToModel(t *queue.Token) *models.QueueTokenModel {
	return &models.QueueTokenModel{
		ID:           t.ID(),
		TicketID:     t.TicketID(),
		TicketNumber: t.TicketNumber(),
		TokenNumber:  t.TokenNumber(),
		Status:       t.Status().String(),
		Source:       t.Source(),
		LocationID:   t.LocationID(),
		OrderMode:    t.OrderMode(),
		CreatedAt:    timeToMilli(t.CreatedAt()),
		UpdatedAt:    timeToMilli(t.UpdatedAt()),
	}
}

func (m *queueTokenMapper) ToDomain(model *models.QueueTokenModel) (*queue.Token, error) {
	status, err := queue.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("queue token %s: %w", model.ID, err)
	}

	return queue.ReconstructToken(
		model.ID,
		model.TicketID,
		model.TicketNumber,
		model.TokenNumber,
		status,
		model.Source,
		model.LocationID,
		model.OrderMode,
		milliToTime(model.CreatedAt),
		milliToTime(model.UpdatedAt),
	)
}

func (m *queueTokenMapper) ToDomains(rows []models.QueueTokenModel) ([]*queue.Token, error) {
	tokens := make([]*queue.Token, len(rows))
	for i := range rows {
		t, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		tokens[i] = t
	}
	return tokens, nil
}
