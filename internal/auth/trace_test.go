package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/backoffice/internal/telemetry"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	telemetry.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		telemetry.SetTracerProvider(nil)
	})
	return rec
}

func spanAttr(s sdktrace.ReadOnlySpan, key string) string {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestSignIn_TracesEachAttempt(t *testing.T) {
	rec := recordSpans(t)
	fx := newStoreFixture()
	client := newFakeClient().
		on(adminPath, nil, apiErr(403, "This account is not an admin")).
		on(developerPath, tokenFor("T2", "developer"), nil)

	_, err := newFlow(client, fx).SignIn(context.Background(), cred, false)
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, telemetry.SpanLoginAttempt, spans[0].Name())
	assert.Equal(t, "admin", spanAttr(spans[0], "audience"))
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, ErrWrongAudience, spanAttr(spans[0], "error_code"))

	assert.Equal(t, "developer", spanAttr(spans[1], "audience"))
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	signIn := spans[2]
	assert.Equal(t, telemetry.SpanSignIn, signIn.Name())
	assert.Equal(t, codes.Ok, signIn.Status().Code)
	assert.Equal(t, "2", spanAttr(signIn, "attempts"))
	assert.Equal(t, "superadmin", spanAttr(signIn, "role"))
	assert.Equal(t, signIn.SpanContext().SpanID(), spans[0].Parent().SpanID())

	for _, s := range spans {
		for _, kv := range s.Attributes() {
			assert.NotEqual(t, cred.Password, kv.Value.Emit())
		}
	}
}

func TestSignIn_TracesAccessDenied(t *testing.T) {
	rec := recordSpans(t)
	fx := newStoreFixture()
	client := newFakeClient().on(adminPath, tokenFor("T3", "user"), nil)

	_, err := newFlow(client, fx).SignIn(context.Background(), cred, true)
	require.Error(t, err)

	spans := rec.Ended()
	signIn := spans[len(spans)-1]
	assert.Equal(t, codes.Error, signIn.Status().Code)
	assert.Equal(t, ErrAccessDenied, spanAttr(signIn, "error_code"))
}
