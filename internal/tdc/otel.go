package tdc

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/jmknapp/cobia-patrols/internal/tdc"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
