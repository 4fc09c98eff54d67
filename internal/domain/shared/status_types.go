package shared

// RunStatus defines reconciliation run states
type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusNoData    RunStatus = "NO_DATA"
	RunStatusFailed    RunStatus = "FAILED"
)

// FailureReason defines reconciliation failure categories
type FailureReason string

const (
	FailureReasonAccountNotFound FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonAccountInactive FailureReason = "ACCOUNT_INACTIVE"
	FailureReasonInvalidInput    FailureReason = "INVALID_INPUT"
	FailureReasonInvalidConfig   FailureReason = "INVALID_CONFIGURATION"
	FailureReasonCommitFailed    FailureReason = "TRANSACTION_COMMIT_FAILED"
	FailureReasonUnknownError    FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
