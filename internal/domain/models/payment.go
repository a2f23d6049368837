package models

import (
	"time"
)

// PaymentMethod is the card argument accepted by authorize/purchase calls.
// Exactly three implementations exist: CardDetails (raw card data),
// Authorization (composite token from a prior transaction) and VaultToken
// (tokenized card from a prior Tokenize call).
type PaymentMethod interface {
	paymentMethod()
}

// CardDetails holds raw card data. Validation of the card number happens
// upstream; this layer only maps fields onto the wire.
type CardDetails struct {
	Number string
	Month  int
	Year   int

	// Start date and issue number are only meaningful for Maestro and Solo.
	StartMonth  int
	StartYear   int
	IssueNumber string

	VerificationValue string
	Name              string
}

func (CardDetails) paymentMethod() {}

// Authorization is the composite token returned by an authorize or capture
// step: reference, auth code and continuous-authority reference joined by
// semicolons. Any segment may be empty.
type Authorization string

func (Authorization) paymentMethod() {}

// VaultToken references a card tokenized by the processor. Expiry and CVV
// still travel with it on authorization requests.
type VaultToken struct {
	Token             string
	Month             int
	Year              int
	VerificationValue string
}

func (VaultToken) paymentMethod() {}

// Address is a postal address used for billing, delivery and fraud screening.
type Address struct {
	Name     string
	Phone    string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
	Country  string
}

// Profile describes a customer whose card is being tokenized.
type Profile struct {
	Card    CardDetails
	Email   string
	IP      string
	Billing *Address
}

// Options carries the per-call settings recognized by gateway operations.
type Options struct {
	// OrderID is required for authorize and purchase.
	OrderID  string
	Currency string

	BillingAddress *Address

	// Customer fields for the plain customer block. Ignored when fraud
	// screening is active; the two blocks are mutually exclusive on the wire.
	Email string
	IP    string

	// SetUpContinuousAuthority asks the processor to establish a standing
	// authority alongside the authorization.
	SetUpContinuousAuthority bool

	// PerformFraudCheck gates the fraud-screening sub-payload. Requires Fraud.
	PerformFraudCheck bool
	Fraud             *FraudContext

	// PIN travels with the card block for processors that verify a
	// cardholder PIN. RequirePIN makes its absence a validation failure.
	PIN        string
	RequirePIN bool
}

// FraudContext is the order/customer detail submitted for real-time risk
// scoring. Present only when fraud screening is requested.
type FraudContext struct {
	Customer FraudCustomer
	Delivery *Address
	Billing  *Address
	Order    FraudOrder
	Callback *FraudCallback
}

// FraudCustomer identifies the purchaser to the risk engine.
type FraudCustomer struct {
	FirstPurchaseDate time.Time
	Email             string
	IP                string

	// PreviousPurchaseCount and PreviousPurchaseValue summarize purchase
	// history; value is in minor currency units.
	PreviousPurchaseCount int
	PreviousPurchaseValue int64
}

// FraudOrder describes the order being screened.
type FraudOrder struct {
	ShippingMethod string
	GiftMessage    string
	Products       []ProductLine
}

// ProductLine is one order line item.
type ProductLine struct {
	SKU       string
	ProductID string
	Quantity  int
	// Price is in minor currency units.
	Price int64
	// Count is the declared line-item count; the product list element carries
	// the first line's Count as its count attribute.
	Count int
}

// FraudCallback configures the risk engine's realtime callback.
type FraudCallback struct {
	Format  string
	URL     string
	Options string
}

// CVVResult is the normalized card-verification outcome.
type CVVResult struct {
	Code    string
	Message string
	Matched bool
}

// Result is the normalized outcome of a gateway operation. Declines are
// ordinary Results with Success=false; only pre-network validation and
// request construction return Go errors.
type Result struct {
	Success bool
	Message string

	// Operation names the wire operation that produced this result
	// ("auth", "pre", "fulfill", "cancel", "txn_refund", "tokenize", ...),
	// so multi-step choreographies stay attributable to the failing step.
	Operation string

	// Authorization is the composite token to persist between authorize and
	// capture/void. Empty on failure.
	Authorization string

	CVV                 *CVVResult
	FraudRecommendation string

	// Params is the full normalized response map for callers needing raw
	// detail. Values are strings, or map[string]string attribute maps for
	// elements that carried attributes.
	Params map[string]any
}
