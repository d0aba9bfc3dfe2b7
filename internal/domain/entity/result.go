// internal/domain/entity/result.go
package entity

// PipelineOutcome classifies the result of one create-path pipeline run.
type PipelineOutcome string

const (
	OutcomeInserted          PipelineOutcome = "inserted"
	OutcomeNoData            PipelineOutcome = "no_data"
	OutcomeDuplicate         PipelineOutcome = "duplicate"
	OutcomeWriteFailed       PipelineOutcome = "write_failed"
	OutcomeConnectionFailure PipelineOutcome = "connection_failure"
	OutcomeUnexpectedError   PipelineOutcome = "unexpected_error"
)

// PipelineResult is returned to the caller of the create path. Message is
// suitable for direct display to the end user.
type PipelineResult struct {
	Outcome PipelineOutcome
	Message string
}
