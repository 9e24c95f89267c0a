package tracking

type RejectKind int

const (
	RejectOfferUnavailable RejectKind = iota
	RejectAffiliateBlocked
	RejectAccessDenied
	RejectTargeting
	RejectCapReached
)

// Rejection is a policy denial on the click path. It is an error so the
// service can short-circuit with it, but handlers are expected to unwrap it
// with errors.As and map the kind to an HTTP status.
type Rejection struct {
	Kind   RejectKind
	Reason string
	// EventType is the fraud event recorded for this rejection.
	EventType string
}

func (r *Rejection) Error() string {
	return r.Reason
}
