package ui

// StatusKind is the activity of the prediction requester.
type StatusKind int

const (
	Idle StatusKind = iota
	Pending
	Failed
)

// Status is exactly one of idle, pending, or failed with a message.
type Status struct {
	Kind    StatusKind
	Message string
}

func IdleStatus() Status {
	return Status{Kind: Idle}
}

func PendingStatus() Status {
	return Status{Kind: Pending}
}

func FailedStatus(message string) Status {
	return Status{Kind: Failed, Message: message}
}

func (s Status) IsPending() bool {
	return s.Kind == Pending
}

func (s Status) IsFailed() bool {
	return s.Kind == Failed
}

func (s Status) String() string {
	switch s.Kind {
	case Pending:
		return "pending"
	case Failed:
		return "failed: " + s.Message
	default:
		return "idle"
	}
}
