package usecase

import (
	"context"
	"time"

	"travel-marketplace/pkg/broker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PackageEvent struct {
	PackageID  uuid.UUID `json:"package_id"`
	SellerID   uuid.UUID `json:"seller_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	PackageID  uuid.UUID `json:"package_id"`
	UserID     uuid.UUID `json:"user_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	Status     string    `json:"status"`
	Travelers  int       `json:"travelers"`
	TotalPrice int64     `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

const publishTimeout = 2 * time.Second

// publish is fire-and-forget from the caller's point of view: the state
// change already happened, so a broker failure is only logged.
func publish(ctx context.Context, pub broker.Publisher, log *zap.Logger, routingKey string, payload any) {
	if pub == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		log.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
