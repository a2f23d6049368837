package paygate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardwell-io/gateway/internal/adapters/ports"
	"github.com/cardwell-io/gateway/internal/domain/models"
	domainports "github.com/cardwell-io/gateway/internal/domain/ports"
	"github.com/cardwell-io/gateway/internal/util"
	pkgerrors "github.com/cardwell-io/gateway/pkg/errors"
)

// CreateProfile validates the card by holding one minor unit and voiding the
// hold before tokenizing; the processor has no direct validate-and-tokenize
// primitive.
const profileProbeAmount = 1

// Config holds the static PayGate settings shared by all calls. It is
// read-only after construction; endpoint mode selection happens in the
// config layer, never by mutating a live adapter.
type Config struct {
	Client   string
	Password string
	Endpoint string
	Timeout  time.Duration
}

// Adapter implements the Gateway port against the PayGate XML API. It holds
// no mutable per-call state, so concurrent calls are safe.
type Adapter struct {
	config     Config
	builder    builder
	httpClient ports.HTTPClient
	logger     *zap.Logger
}

var _ domainports.Gateway = (*Adapter)(nil)

// NewAdapter creates a PayGate adapter with dependency injection
func NewAdapter(config Config, httpClient ports.HTTPClient, logger *zap.Logger) *Adapter {
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Adapter{
		config:     config,
		builder:    builder{client: config.Client, password: config.Password},
		httpClient: httpClient,
		logger:     logger,
	}
}

// Authorize implements Gateway.Authorize using the "pre" method
func (a *Adapter) Authorize(ctx context.Context, amount int64, method models.PaymentMethod, opts models.Options) (*models.Result, error) {
	return a.auth(ctx, methodPre, amount, method, opts)
}

// Purchase implements Gateway.Purchase using the "auth" method
func (a *Adapter) Purchase(ctx context.Context, amount int64, method models.PaymentMethod, opts models.Options) (*models.Result, error) {
	return a.auth(ctx, methodAuth, amount, method, opts)
}

func (a *Adapter) auth(ctx context.Context, method string, amount int64, pm models.PaymentMethod, opts models.Options) (*models.Result, error) {
	if opts.OrderID == "" {
		return nil, pkgerrors.NewValidationError("order_id", "order_id is required")
	}
	if opts.PerformFraudCheck && opts.Fraud == nil {
		return nil, pkgerrors.NewValidationError("fraud", "fraud context is required when perform_fraud_check is set")
	}
	if opts.RequirePIN && opts.PIN == "" {
		return nil, pkgerrors.NewValidationError("pin", "pin is required")
	}

	var doc *Element
	switch m := pm.(type) {
	case models.CardDetails:
		doc = a.builder.cardTxn(method, amount, m, opts)
	case models.VaultToken:
		doc = a.builder.tokenTxn(method, amount, m, opts)
	case models.Authorization:
		var err error
		doc, err = a.builder.contAuthTxn(method, amount, m, opts)
		if err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.NewValidationError("card", "unsupported payment method")
	}

	return a.submit(ctx, method, doc)
}

// Capture implements Gateway.Capture ("fulfill" against the prior reference)
func (a *Adapter) Capture(ctx context.Context, amount int64, authorization models.Authorization, opts models.Options) (*models.Result, error) {
	doc := a.builder.historicTxn(methodFulfill, &amount, string(authorization), opts)
	return a.submit(ctx, methodFulfill, doc)
}

// Void implements Gateway.Void ("cancel", no amount element)
func (a *Adapter) Void(ctx context.Context, authorization models.Authorization, opts models.Options) (*models.Result, error) {
	doc := a.builder.historicTxn(methodCancel, nil, string(authorization), opts)
	return a.submit(ctx, methodCancel, doc)
}

// Refund implements Gateway.Refund ("txn_refund"). A nil amount omits the
// amount element entirely, which the processor treats as a full refund of
// everything already captured.
func (a *Adapter) Refund(ctx context.Context, amount *int64, reference string, opts models.Options) (*models.Result, error) {
	doc := a.builder.historicTxn(methodTxnRefund, amount, reference, opts)
	return a.submit(ctx, methodTxnRefund, doc)
}

// Credit implements Gateway.Credit: a standalone "refund" CardTxn pushing
// funds to a fresh card.
//
// Deprecated: use Refund with the original transaction reference where one
// exists.
func (a *Adapter) Credit(ctx context.Context, amount int64, card models.CardDetails, opts models.Options) (*models.Result, error) {
	if opts.OrderID == "" {
		return nil, pkgerrors.NewValidationError("order_id", "order_id is required")
	}
	doc := a.builder.cardTxn(methodRefund, amount, card, opts)
	return a.submit(ctx, methodRefund, doc)
}

// Tokenize implements Gateway.Tokenize
func (a *Adapter) Tokenize(ctx context.Context, profile models.Profile) (*models.Result, error) {
	reference := util.UUIDToTranNbr(uuid.New())
	doc := a.builder.tokenizeTxn(profile.Card.Number, reference)
	return a.submit(ctx, methodTokenize, doc)
}

// CreateProfile implements Gateway.CreateProfile: authorize one minor unit,
// void the hold, then tokenize. The first failing step's Result is returned
// verbatim and later steps never run; a crash between authorize and void
// leaves a small stale hold to be reconciled out-of-band.
func (a *Adapter) CreateProfile(ctx context.Context, profile models.Profile) (*models.Result, error) {
	opts := models.Options{
		OrderID:        util.UUIDToTranNbr(uuid.New()),
		Email:          profile.Email,
		IP:             profile.IP,
		BillingAddress: profile.Billing,
	}

	authResult, err := a.Authorize(ctx, profileProbeAmount, profile.Card, opts)
	if err != nil {
		return nil, err
	}
	if !authResult.Success {
		a.logger.Warn("profile probe authorization declined",
			zap.String("reason", authResult.Message),
		)
		return authResult, nil
	}

	voidResult, err := a.Void(ctx, models.Authorization(authResult.Authorization), models.Options{})
	if err != nil {
		return nil, err
	}
	if !voidResult.Success {
		a.logger.Warn("profile probe void declined",
			zap.String("reason", voidResult.Message),
			zap.String("authorization", authResult.Authorization),
		)
		return voidResult, nil
	}

	return a.Tokenize(ctx, profile)
}

// submit encodes the document, posts it and normalizes the reply. Transport
// failures and undecodable bodies both become synthetic failure Results.
// Nothing retries; a declined or failed step is final at this layer.
func (a *Adapter) submit(ctx context.Context, operation string, doc *Element) (*models.Result, error) {
	body := doc.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/xml")
	httpReq.SetBasicAuth(a.config.Client, a.config.Password)

	a.logger.Info("submitting PayGate transaction",
		zap.String("operation", operation),
		zap.String("endpoint", a.config.Endpoint),
	)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.Error("failed to reach PayGate", zap.Error(err))
		return networkFailure(operation, err), nil
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Error statuses still go through the decode path: PayGate returns
	// structured declines with non-2xx codes.
	fields, err := DecodeResponse(raw)
	if err != nil {
		a.logger.Warn("undecodable PayGate response",
			zap.Int("status_code", httpResp.StatusCode),
			zap.Error(err),
		)
		return syntheticFailure(operation, string(raw), err), nil
	}

	result := interpret(fields, operation)

	a.logger.Info("PayGate transaction processed",
		zap.String("operation", operation),
		zap.Bool("success", result.Success),
		zap.String("reason", result.Message),
	)

	return result, nil
}
