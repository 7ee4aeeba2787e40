package task

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	qport "skillswap/internal/infrastructure/queue/port"
	"skillswap/internal/pkg/alerts/application/usecase"
	repository "skillswap/internal/pkg/alerts/persistence/repository/port"
)

// ListingCreatedTaskType is the queue task name for evaluating a freshly
// created listing against saved filters.
const ListingCreatedTaskType = "alerts:listing_created"

// ListingCreatedPayload is the JSON payload transported via the queue.
type ListingCreatedPayload struct {
	ListingID string `json:"listingId"`
}

// NewListingCreatedTask marshals the payload into a queue task.
func NewListingCreatedTask(p ListingCreatedPayload) (qport.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: ListingCreatedTaskType, Payload: b}, nil
}

// RegisterListingCreatedTask binds the handler to the worker server. Unlike the
// email channel, a transient dispatch failure is returned so the queue retries
// it; a listing that vanished before processing is dropped.
func RegisterListingCreatedTask(srv qport.Server, uc *usecase.DispatchListingUseCase, log *slog.Logger) {
	srv.Register(ListingCreatedTaskType, func(ctx context.Context, t qport.Task) error {
		var p ListingCreatedPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			log.Warn("drop malformed listing task", "error", err)
			return nil
		}
		n, err := uc.Execute(ctx, usecase.DispatchListingInput{ListingID: p.ListingID})
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("listing gone before dispatch", "listing", p.ListingID)
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("listing dispatched", "listing", p.ListingID, "notified", n)
		return nil
	})
}
