package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanSignIn       = "auth.sign_in"
	SpanLoginAttempt = "auth.login_attempt"
)

// StartCommandSpan creates a span for a CLI command execution.
func StartCommandSpan(ctx context.Context, cmdName string) (context.Context, trace.Span) {
	ctx, span := GetTracerProvider().Tracer("commands").Start(ctx, "command."+cmdName)
	span.SetAttributes(
		attribute.String("command", cmdName),
		attribute.String("component", "cli"),
	)
	return ctx, span
}

// StartSignInSpan creates the span covering a whole sign-in, fallback included.
func StartSignInSpan(ctx context.Context) (context.Context, trace.Span) {
	return GetTracerProvider().Tracer("auth").Start(ctx, SpanSignIn,
		trace.WithAttributes(attribute.String("component", "auth")))
}

// StartLoginSpan creates a span for one login call against audience.
// Credentials are never recorded.
func StartLoginSpan(ctx context.Context, audience string) (context.Context, trace.Span) {
	return GetTracerProvider().Tracer("auth").Start(ctx, SpanLoginAttempt,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("audience", audience)))
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records err on span and sets error status. A non-empty code
// is added as the error_code attribute.
func RecordError(span trace.Span, err error, code string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if code != "" {
		span.SetAttributes(attribute.String("error_code", code))
	}
}

// InjectHeaders writes the trace context of ctx into h.
func InjectHeaders(ctx context.Context, h http.Header) {
	propagator.Inject(ctx, propagation.HeaderCarrier(h))
}
