package apiclient

// RetryPolicy tracks whether a logical call has already spent its single
// credential refresh. It only moves forward.
type RetryPolicy int

const (
	// NotAttempted allows one refresh followed by one retry.
	NotAttempted RetryPolicy = iota
	// Attempted means the refresh was used; a further 401 propagates.
	Attempted
)

// CanRefresh reports whether a refresh may still be attempted.
func (p RetryPolicy) CanRefresh() bool {
	return p == NotAttempted
}

// Next returns the policy after a refresh attempt.
func (p RetryPolicy) Next() RetryPolicy {
	return Attempted
}

func (p RetryPolicy) String() string {
	if p == Attempted {
		return "attempted"
	}
	return "not_attempted"
}
