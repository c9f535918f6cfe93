package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/kelvinsinsua/scalaya-backend/internal/kafka"
	"github.com/kelvinsinsua/scalaya-backend/internal/orders"
	"github.com/kelvinsinsua/scalaya-backend/internal/redisx"
)

// Service fans a created order out to its suppliers. Dropshipping
// means stock stays with the supplier: this worker records who has to
// ship what and never touches stock levels.
type Service struct {
	Repo        *Repo
	Redis       *redis.Client
	Producer    *kafkax.Producer // order.dispatched
	ServiceName string
}

// HandleOrderCreated is wired as the consumer handler for
// order.created.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "dispatch", env.EventID)
	fresh, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		// Redis down degrades to at-least-once; the unique index on
		// supplier_dispatches still absorbs the duplicates.
		slog.Warn("dedup check failed", "err", err)
	} else if !fresh {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	records := GroupBySupplier(p)
	if len(records) == 0 {
		slog.Warn("order has no supplier-backed items", "order", p.OrderNumber)
		return nil
	}
	if err := s.Repo.SaveAll(ctx, records); err != nil {
		return err
	}

	supplierIDs := make([]int64, 0, len(records))
	for _, rec := range records {
		supplierIDs = append(supplierIDs, rec.SupplierID)
	}

	state := kafkax.MustMarshal(map[string]any{"suppliers": supplierIDs, "dispatched_at": time.Now().UTC()})
	_ = s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyDispatch, p.OrderNumber), state, redisx.TTLDispatch).Err()

	s.publishDispatched(p.OrderNumber, supplierIDs, env.TraceID)
	slog.Info("order dispatched", "order", p.OrderNumber, "suppliers", len(supplierIDs))
	return nil
}

// GroupBySupplier collapses the order lines into one dispatch record
// per supplier. Lines without a supplier (product deleted between
// order and dispatch) are skipped.
func GroupBySupplier(p orders.OrderCreatedPayload) []Record {
	counts := map[int64]int{}
	var order []int64
	for _, item := range p.Items {
		if item.SupplierID == 0 {
			continue
		}
		if _, seen := counts[item.SupplierID]; !seen {
			order = append(order, item.SupplierID)
		}
		counts[item.SupplierID]++
	}

	now := time.Now()
	records := make([]Record, 0, len(order))
	for _, id := range order {
		records = append(records, Record{
			OrderNumber: p.OrderNumber,
			SupplierID:  id,
			ItemCount:   counts[id],
			Status:      "queued",
			CreatedAt:   now,
		})
	}
	return records
}

func (s *Service) publishDispatched(orderNumber string, supplierIDs []int64, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderDispatched,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: orderNumber,
		Payload: kafkax.MustMarshal(orders.OrderDispatchedPayload{
			OrderNumber: orderNumber,
			SupplierIDs: supplierIDs,
		}),
	}
	s.Producer.Publish(orders.PartitionKey(orderNumber), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderDispatched)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
