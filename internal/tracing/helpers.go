package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StoreOperation represents the type of store operation being traced.
type StoreOperation string

const (
	// StoreOperationGet represents a point lookup.
	StoreOperationGet StoreOperation = "get"
	// StoreOperationList represents a full or filtered scan.
	StoreOperationList StoreOperation = "list"
	// StoreOperationCreate represents an insert.
	StoreOperationCreate StoreOperation = "create"
	// StoreOperationUpdate represents an update.
	StoreOperationUpdate StoreOperation = "update"
	// StoreOperationDelete represents a delete.
	StoreOperationDelete StoreOperation = "delete"
)

// StartStoreSpan creates a new span for an entity store operation.
// Returns the new context and a function to end the span.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationGet)
//	defer endSpan(err)
func StartStoreSpan(ctx context.Context, collection string, operation StoreOperation) (context.Context, func(error)) {
	tracer := otel.Tracer("userdir/store")

	spanName := string(operation)
	if collection != "" {
		spanName = spanName + " " + collection
	}

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("db.system", "memory"),
			attribute.String("db.operation", string(operation)),
		),
	)

	if collection != "" {
		span.SetAttributes(attribute.String("db.collection", collection))
	}

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartSpan creates a new span for a general operation.
// Returns the new context and a function to end the span.
func StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	tracer := otel.Tracer("userdir")

	ctx, span := tracer.Start(ctx, name)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}
