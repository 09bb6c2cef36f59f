package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/honeynil/rotrade/internal/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("rotrade-service")

// startSpan opens a span and returns a finisher that marks it failed when
// err is non-nil.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span, func(error)) {
	ctx, span := tracer.Start(ctx, name)
	return ctx, span, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

const publishTimeout = 2 * time.Second

// publish hands an event to the broker. A broker failure never fails the
// request; the event is logged and dropped.
func publish(ctx context.Context, p events.Publisher, topic string, evt events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, topic, evt); err != nil {
		slog.Error("failed to publish event", "topic", topic, "type", evt.Type, "event_id", evt.ID, "error", err)
	}
}
