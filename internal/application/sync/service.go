// Package sync implements the sync orchestrator: staged catalog pulls from
// the backend and sequential pushes of locally queued tickets and workdays.
package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/slatepos/slate/internal/application/sync/dto"
	"github.com/slatepos/slate/internal/domain/appstate"
	"github.com/slatepos/slate/internal/domain/catalog"
	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/domain/workday"
	"github.com/slatepos/slate/internal/infrastructure/remote"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/logger"
)

// BackendClient is the remote surface the orchestrator depends on.
type BackendClient interface {
	FetchProductCombinations(ctx context.Context, params remote.PullParams) (*remote.ProductCombinationsDTO, error)
	FetchCharges(ctx context.Context, params remote.PullParams) (*remote.ChargesDTO, error)
	FetchPaymentTypes(ctx context.Context, params remote.PullParams) ([]remote.PaymentTypeDTO, error)
	SyncTicket(ctx context.Context, params remote.PullParams, body map[string]any) (*remote.TicketSyncResult, error)
	SyncWorkday(ctx context.Context, params remote.PullParams, body map[string]any) (*remote.WorkdaySyncResult, error)
	UpdateWorkday(ctx context.Context, params remote.PullParams, workdayID string, patch map[string]any) error
}

// ConnectivityProbe reports whether the backend is reachable right now.
type ConnectivityProbe interface {
	IsOnline(ctx context.Context) bool
}

// Service coordinates all backend synchronization.
type Service struct {
	tickets  ticket.Repository
	workdays workday.Repository
	catalog  catalog.Repository
	appState appstate.Repository

	backend BackendClient
	probe   ConnectivityProbe
	logger  logger.Interface
}

// NewService creates the sync orchestrator.
func NewService(
	tickets ticket.Repository,
	workdays workday.Repository,
	catalogRepo catalog.Repository,
	appState appstate.Repository,
	backend BackendClient,
	probe ConnectivityProbe,
	log logger.Interface,
) *Service {
	return &Service{
		tickets:  tickets,
		workdays: workdays,
		catalog:  catalogRepo,
		appState: appState,
		backend:  backend,
		probe:    probe,
		logger:   log.Named("sync"),
	}
}

// IsOnline reports backend reachability via a single probe.
func (s *Service) IsOnline(ctx context.Context) bool {
	return s.probe.IsOnline(ctx)
}

func (s *Service) pullParams(ctx context.Context) (remote.PullParams, error) {
	state, err := s.appState.Get(ctx)
	if err != nil {
		return remote.PullParams{}, err
	}
	if !state.SetupComplete() {
		return remote.PullParams{}, apperrors.NewValidationError("device setup is not complete", nil)
	}

	var orderModes []string
	if state.OrderModeIDs != "" {
		if err := json.Unmarshal([]byte(state.OrderModeIDs), &orderModes); err != nil {
			return remote.PullParams{}, apperrors.NewValidationError("stored order mode ids are malformed", err)
		}
	}

	return remote.PullParams{
		TenantDomain: state.TenantDomain,
		AccessToken:  state.AccessToken,
		Channel:      "pos",
		LocationID:   state.LocationID,
		BrandID:      state.BrandID,
		OrderModeIDs: orderModes,
	}, nil
}

// PullCatalog imports the full catalog in dependency order: groups before
// categories before products, tag groups before tags, charges before their
// mappings, payment methods last. Each stage commits on its own; a failure
// aborts the remaining stages but keeps what already landed, so a retry
// re-upserts from the top without harm.
func (s *Service) PullCatalog(ctx context.Context) (*dto.PullCatalogResult, error) {
	params, err := s.pullParams(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var result dto.PullCatalogResult

	combos, err := s.backend.FetchProductCombinations(ctx, params)
	if err != nil {
		return nil, err
	}

	stages := []struct {
		name string
		run  func() (int, error)
	}{
		{"product_groups", func() (int, error) {
			rows := mapProductGroups(combos.Groups, now)
			return len(rows), s.catalog.SaveProductGroups(ctx, rows)
		}},
		{"product_categories", func() (int, error) {
			rows := mapProductCategories(combos.Categories, now)
			return len(rows), s.catalog.SaveProductCategories(ctx, rows)
		}},
		{"products", func() (int, error) {
			rows := mapProducts(combos.Products, now)
			return len(rows), s.catalog.SaveProducts(ctx, rows)
		}},
		{"tag_groups", func() (int, error) {
			rows := mapTagGroups(combos.TagGroups, now)
			return len(rows), s.catalog.SaveTagGroups(ctx, rows)
		}},
		{"product_tags", func() (int, error) {
			rows := mapProductTags(combos.Tags, now)
			return len(rows), s.catalog.SaveProductTags(ctx, rows)
		}},
	}

	counts := make(map[string]int, 8)
	for _, stage := range stages {
		n, err := stage.run()
		if err != nil {
			s.logger.Errorw("catalog pull aborted", "stage", stage.name, "error", err)
			return nil, err
		}
		counts[stage.name] = n
	}

	charges, err := s.backend.FetchCharges(ctx, params)
	if err != nil {
		s.logger.Errorw("catalog pull aborted", "stage", "charges", "error", err)
		return nil, err
	}
	chargeRows := mapCharges(charges.Charges, now)
	if err := s.catalog.SaveCharges(ctx, chargeRows); err != nil {
		return nil, err
	}
	mappingRows := mapChargeMappings(charges.Mappings, now)
	if err := s.catalog.SaveChargeMappings(ctx, mappingRows); err != nil {
		return nil, err
	}

	paymentTypes, err := s.backend.FetchPaymentTypes(ctx, params)
	if err != nil {
		s.logger.Errorw("catalog pull aborted", "stage", "payment_methods", "error", err)
		return nil, err
	}
	paymentRows := mapPaymentMethods(paymentTypes, now)
	if err := s.catalog.SavePaymentMethods(ctx, paymentRows); err != nil {
		return nil, err
	}

	result.Imported = dto.StageCounts{
		ProductGroups:     counts["product_groups"],
		ProductCategories: counts["product_categories"],
		Products:          counts["products"],
		TagGroups:         counts["tag_groups"],
		ProductTags:       counts["product_tags"],
		Charges:           len(chargeRows),
		ChargeMappings:    len(mappingRows),
		PaymentMethods:    len(paymentRows),
	}

	s.logger.Infow("catalog pull complete", "imported", result.Imported.Total())
	return &result, nil
}

// PushPendingTickets submits every unsynced ticket sequentially in creation
// order. One failing ticket does not stop the run; the result partitions
// ticket ids into synced and failed.
func (s *Service) PushPendingTickets(ctx context.Context) (*dto.PushResult, error) {
	params, err := s.pullParams(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.tickets.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.PushResult{Synced: []string{}, Failed: []string{}}
	for _, t := range pending {
		if err := s.pushOneTicket(ctx, params, t); err != nil {
			result.Failed = append(result.Failed, t.ID())
		} else {
			result.Synced = append(result.Synced, t.ID())
		}
	}

	s.logger.Infow("ticket push complete",
		"synced", len(result.Synced),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *Service) pushOneTicket(ctx context.Context, params remote.PullParams, t *ticket.Ticket) error {
	if err := t.BeginSync(); err != nil {
		return err
	}
	if err := s.tickets.Update(ctx, t); err != nil {
		return err
	}

	_, pushErr := s.backend.SyncTicket(ctx, params, ticketPushBody(t))
	if pushErr != nil {
		s.logger.Warnw("ticket push failed",
			"ticket_id", t.ID(),
			"attempts", t.SyncAttempts()+1,
			"error", pushErr,
		)
		if err := t.FailSync(pushErr.Error()); err != nil {
			return err
		}
		if err := s.tickets.Update(ctx, t); err != nil {
			return err
		}
		return pushErr
	}

	if err := t.CompleteSync(); err != nil {
		return err
	}
	return s.tickets.Update(ctx, t)
}

// SyncTicketNow submits a fresh ticket while the caller still holds it,
// before the first persist. On success the ticket is marked SYNCED so the
// row lands with synced_at already stamped.
func (s *Service) SyncTicketNow(ctx context.Context, t *ticket.Ticket) error {
	params, err := s.pullParams(ctx)
	if err != nil {
		return err
	}
	if _, err := s.backend.SyncTicket(ctx, params, ticketPushBody(t)); err != nil {
		return err
	}
	return t.MarkSyncedOnCreate()
}

func ticketPushBody(t *ticket.Ticket) map[string]any {
	return map[string]any{
		"id":              t.ID(),
		"ticket_number":   t.TicketNumber(),
		"ticket_data":     json.RawMessage(t.TicketData()),
		"order_status":    string(t.OrderStatus()),
		"location_id":     t.LocationID(),
		"order_mode_name": t.OrderModeName(),
		"total_amount":    t.TotalAmount(),
		"queue_number":    t.QueueNumber(),
		"business_date":   t.BusinessDate(),
		"created_at":      t.CreatedAt().UnixMilli(),
	}
}

// PushPendingWorkdays submits every unsynced workday sequentially. A shift
// the backend already knows (workday id assigned) is patched; a new one is
// created and its server id stored locally.
func (s *Service) PushPendingWorkdays(ctx context.Context) (*dto.PushResult, error) {
	params, err := s.pullParams(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.workdays.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.PushResult{Synced: []string{}, Failed: []string{}}
	for _, w := range pending {
		if err := s.pushOneWorkday(ctx, params, w); err != nil {
			result.Failed = append(result.Failed, w.LocalID())
		} else {
			result.Synced = append(result.Synced, w.LocalID())
		}
	}

	s.logger.Infow("workday push complete",
		"synced", len(result.Synced),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *Service) pushOneWorkday(ctx context.Context, params remote.PullParams, w *workday.Workday) error {
	if err := w.BeginSync(); err != nil {
		return err
	}
	if err := s.workdays.Update(ctx, w); err != nil {
		return err
	}

	var pushErr error
	if w.WorkdayID() != "" {
		pushErr = s.backend.UpdateWorkday(ctx, params, w.WorkdayID(), workdayPatchBody(w))
	} else {
		var created *remote.WorkdaySyncResult
		created, pushErr = s.backend.SyncWorkday(ctx, params, workdayCreateBody(w))
		if pushErr == nil && created != nil && created.WorkdayID != "" {
			if err := w.AssignWorkdayID(created.WorkdayID); err != nil {
				pushErr = err
			}
		}
	}

	if pushErr != nil {
		s.logger.Warnw("workday push failed",
			"local_id", w.LocalID(),
			"error", pushErr,
		)
		if err := w.FailSync(pushErr.Error()); err != nil {
			return err
		}
		if err := s.workdays.Update(ctx, w); err != nil {
			return err
		}
		return pushErr
	}

	if err := w.CompleteSync(); err != nil {
		return err
	}
	return s.workdays.Update(ctx, w)
}

func workdayCreateBody(w *workday.Workday) map[string]any {
	body := map[string]any{
		"local_id":      w.LocalID(),
		"location_id":   w.LocationID(),
		"start_user_id": w.StartUserID(),
		"start_time":    w.StartTime().UnixMilli(),
	}
	if w.EndTime() != nil {
		body["end_user_id"] = w.EndUserID()
		body["end_time"] = w.EndTime().UnixMilli()
		body["total_sales"] = w.TotalSales()
		body["total_tickets"] = w.TotalTickets()
		body["auto_closed"] = w.AutoClosed()
	}
	return body
}

func workdayPatchBody(w *workday.Workday) map[string]any {
	patch := map[string]any{}
	if w.EndTime() != nil {
		patch["end_user_id"] = w.EndUserID()
		patch["end_time"] = w.EndTime().UnixMilli()
		patch["total_sales"] = w.TotalSales()
		patch["total_tickets"] = w.TotalTickets()
		patch["auto_closed"] = w.AutoClosed()
	}
	return patch
}

// PushAll pushes tickets then workdays in one run.
func (s *Service) PushAll(ctx context.Context) (tickets, workdays *dto.PushResult, err error) {
	tickets, err = s.PushPendingTickets(ctx)
	if err != nil {
		return nil, nil, err
	}
	workdays, err = s.PushPendingWorkdays(ctx)
	if err != nil {
		return tickets, nil, err
	}
	return tickets, workdays, nil
}

// Stats summarizes the local sync state across tickets and workdays.
func (s *Service) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	tickets, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, err
	}
	workdays, err := s.workdays.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		Pending:   tickets.Pending + workdays.Pending,
		Failed:    tickets.Failed + workdays.Failed,
		Synced:    tickets.Synced + workdays.Synced,
		Tickets:   dto.RecordCounts{Pending: tickets.Pending, Failed: tickets.Failed, Synced: tickets.Synced},
		Workdays:  dto.RecordCounts{Pending: workdays.Pending, Failed: workdays.Failed, Synced: workdays.Synced},
		CanLogout: tickets.Unsynced()+workdays.Unsynced() == 0,
	}, nil
}

// CanLogout reports whether every local ticket and workday reached the
// backend. Logout and data clearing stay blocked while anything is unsynced;
// a closed shift that never made it upstream is as much data loss as a lost
// ticket.
func (s *Service) CanLogout(ctx context.Context) (bool, error) {
	tickets, err := s.tickets.Stats(ctx)
	if err != nil {
		return false, err
	}
	workdays, err := s.workdays.Stats(ctx)
	if err != nil {
		return false, err
	}
	return tickets.Unsynced()+workdays.Unsynced() == 0, nil
}
