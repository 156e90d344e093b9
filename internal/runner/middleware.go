package runner

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"shellfs/internal/infra/tracer"
)

// tracingRunner wraps a Runner so every executed command line becomes a span.
type tracingRunner struct {
	next Runner
}

// WithTracing returns a Runner that records an OpenTelemetry span around
// every command execution of next.
func WithTracing(next Runner) Runner {
	return &tracingRunner{next: next}
}

func (r *tracingRunner) Output(ctx context.Context, line string) (string, error) {
	ctx, span := tracer.StartSpan(ctx, "runner.output",
		trace.WithAttributes(tracer.StringAttr("shell.line", line)),
	)
	defer span.End()

	out, err := r.next.Output(ctx, line)
	if err != nil {
		tracer.RecordError(span, err)
		return out, err
	}
	span.SetAttributes(tracer.IntAttr("shell.output_bytes", len(out)))
	tracer.SetOK(span)
	return out, nil
}

func (r *tracingRunner) Run(ctx context.Context, line string) error {
	ctx, span := tracer.StartSpan(ctx, "runner.run",
		trace.WithAttributes(tracer.StringAttr("shell.line", line)),
	)
	defer span.End()

	if err := r.next.Run(ctx, line); err != nil {
		tracer.RecordError(span, err)
		return err
	}
	tracer.SetOK(span)
	return nil
}

func (r *tracingRunner) Privileged(ctx context.Context) bool {
	return r.next.Privileged(ctx)
}

// Close forwards to the wrapped runner when it owns a connection.
func (r *tracingRunner) Close() error {
	if c, ok := r.next.(Closer); ok {
		return c.Close()
	}
	return nil
}
