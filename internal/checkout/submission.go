package checkout

type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSucceeded  SubmissionStatus = "succeeded"
	StatusFailed     SubmissionStatus = "failed"
)

const defaultSubmitError = "Failed to submit order"

// SubmissionState is the observable state of the checkout workflow. Reason is
// set only when Status is StatusFailed, OrderID only when StatusSucceeded.
type SubmissionState struct {
	Status  SubmissionStatus `json:"status"`
	Reason  string           `json:"reason,omitempty"`
	OrderID string           `json:"order_id,omitempty"`
}

func (s SubmissionState) InFlight() bool {
	return s.Status == StatusSubmitting
}

func failed(reason string) SubmissionState {
	return SubmissionState{Status: StatusFailed, Reason: reason}
}
