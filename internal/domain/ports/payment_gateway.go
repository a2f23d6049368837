package ports

import (
	"context"

	"github.com/cardwell-io/gateway/internal/domain/models"
)

// Gateway is the public operation surface of a card-payment processor
// adapter. Every call is a single synchronous exchange (CreateProfile is a
// sequential multi-request choreography); no call retries internally, and
// implementations hold no mutable per-call state, so concurrent use against
// different authorizations is safe.
type Gateway interface {
	// Authorize places a hold for amount minor units. opts.OrderID is
	// required. method may be raw card details, a vault token, or an
	// Authorization whose continuous-authority segment is used.
	Authorize(ctx context.Context, amount int64, method models.PaymentMethod, opts models.Options) (*models.Result, error)

	// Purchase authorizes and captures in one step.
	Purchase(ctx context.Context, amount int64, method models.PaymentMethod, opts models.Options) (*models.Result, error)

	// Capture settles a prior authorization.
	Capture(ctx context.Context, amount int64, authorization models.Authorization, opts models.Options) (*models.Result, error)

	// Void cancels a prior authorization. No amount is sent.
	Void(ctx context.Context, authorization models.Authorization, opts models.Options) (*models.Result, error)

	// Refund returns funds against an existing processor-side reference.
	// A nil amount means a full refund: the amount element is omitted and the
	// processor refunds everything already captured (documented assumption,
	// see DESIGN.md).
	Refund(ctx context.Context, amount *int64, reference string, opts models.Options) (*models.Result, error)

	// Credit pushes funds to a fresh card.
	//
	// Deprecated: use Refund with the original transaction reference where
	// one exists; Credit remains for the standalone-card path only.
	Credit(ctx context.Context, amount int64, card models.CardDetails, opts models.Options) (*models.Result, error)

	// Tokenize exchanges the profile's card for a reusable vault token.
	Tokenize(ctx context.Context, profile models.Profile) (*models.Result, error)

	// CreateProfile validates the card with a 1-minor-unit authorize/void
	// round trip, then tokenizes it. The first failing step's Result is
	// returned verbatim and later steps never run.
	CreateProfile(ctx context.Context, profile models.Profile) (*models.Result, error)
}
