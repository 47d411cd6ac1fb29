package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for every span this module creates
const TracerName = "github.com/jonathan/content-pipeline"

// GenAI semantic convention attribute keys
const (
	GenAISystem             = "gen_ai.system"
	GenAIRequestModel       = "gen_ai.request.model"
	GenAIRequestTemperature = "gen_ai.request.temperature"
	GenAIOperationName      = "gen_ai.operation.name"
)

// Pipeline attribute keys
const (
	AttrRunID           = "pipeline.run_id"
	AttrStage           = "pipeline.stage"
	AttrAgent           = "pipeline.agent"
	AttrAttempt         = "pipeline.fact_check.attempt"
	AttrFactCheckStatus = "pipeline.fact_check.status"
	AttrPromptLength    = "pipeline.prompt.length"
	AttrResponseLength  = "pipeline.response.length"
)

// Tracer returns a tracer from tp, or from the global provider when tp is nil
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(TracerName)
}
