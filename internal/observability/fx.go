package observability

import (
	"context"

	"github.com/thiagosouza28/ideart-cloud/internal/config"
	"github.com/thiagosouza28/ideart-cloud/internal/observability/metrics"
	"github.com/thiagosouza28/ideart-cloud/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module wires tracing and HTTP metrics into the application.
var Module = fx.Module("observability",
	fx.Provide(func(lc fx.Lifecycle, cfg config.Config) (*sdktrace.TracerProvider, error) {
		tp, err := tracing.NewTracerProvider(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return tp.Shutdown(ctx)
			},
		})
		return tp, nil
	}),
	fx.Provide(metrics.NewHTTPMetrics),
	// The provider registers itself globally; force construction.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
