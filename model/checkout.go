package model

// CheckoutRequest is the accepted body of POST /create-checkout-session.
type CheckoutRequest struct {
	ServicePrice float64 `json:"servicePrice" validate:"gt=0"`
	ServiceName  string  `json:"serviceName" validate:"required,max=200"`
	BookingId    string  `json:"bookingId" validate:"required,len=24,hexadecimal"`
	UserEmail    string  `json:"userEmail" validate:"required,email"`
}

// CheckoutSession is the provider-neutral view of a hosted checkout session.
type CheckoutSession struct {
	Id              string
	URL             string
	PaymentStatus   string
	PaymentIntentId string
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
	Metadata        map[string]string
}

type ConfirmOutcome string

const (
	OutcomePaid      ConfirmOutcome = "paid"
	OutcomeDuplicate ConfirmOutcome = "duplicate"
	OutcomeNotPaid   ConfirmOutcome = "not_paid"
	OutcomeFailed    ConfirmOutcome = "failed"
)

// ConfirmResult is the body of PATCH /payment-success. The modifyParcel and
// paymentInfo keys are what the dashboard client reads.
type ConfirmResult struct {
	Outcome       ConfirmOutcome `json:"-"`
	Success       bool           `json:"success"`
	Duplicate     bool           `json:"duplicate,omitempty"`
	Message       string         `json:"message,omitempty"`
	BookingUpdate *UpdateResult  `json:"modifyParcel,omitempty"`
	PaymentInsert *InsertResult  `json:"paymentInfo,omitempty"`
	TrackingId    string         `json:"trackingId,omitempty"`
	TransactionId string         `json:"transactionId,omitempty"`
}
