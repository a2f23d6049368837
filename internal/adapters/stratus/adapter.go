package stratus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardwell-io/gateway/internal/adapters/ports"
	"github.com/cardwell-io/gateway/internal/domain/models"
	"github.com/cardwell-io/gateway/internal/util"
	pkgerrors "github.com/cardwell-io/gateway/pkg/errors"
)

// Method-specific path segments appended to the base URL
const (
	pathUpdateBalance = "/updateBalance"
	pathAllocate      = "/allocate"
	pathSearch        = "/search"
)

// Balance actions sent in the request body
const (
	actionRedeem   = "redeem"
	actionReload   = "reload"
	actionAllocate = "allocate"
)

// operationSearch labels balance lookups; searches carry no body action.
const operationSearch = "search"

const defaultBalanceType = "monetary"

// Config holds the static Stratus settings shared by all calls. Routing
// headers identify the submitting brand/location/terminal to the processor.
// Read-only after construction.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Brand     string
	Location  string
	Terminal  string
	Timeout   time.Duration
}

// Adapter is the client for the Stratus stored-value API. Stateless per
// call; safe for concurrent use.
type Adapter struct {
	config     Config
	httpClient ports.HTTPClient
	logger     *zap.Logger
}

// NewAdapter creates a Stratus adapter with dependency injection
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
		httpClient: httpClient,
		logger:     logger,
	}
}

// amountBlock is the nested amount object in a balance request
type amountBlock struct {
	BalanceType string `json:"balanceType"`
	BalanceCode string `json:"balanceCode"`
	Amount      string `json:"amount"`
}

// balanceRequest is the wire body for all Stratus endpoints
type balanceRequest struct {
	CardNumber     string       `json:"cardNumber"`
	Action         string       `json:"action,omitempty"`
	Transaction    string       `json:"transaction,omitempty"`
	Amount         *amountBlock `json:"amount,omitempty"`
	ReturnBalances bool         `json:"returnBalances"`
}

// Activate allocates a new stored-value card and loads the opening balance
func (a *Adapter) Activate(ctx context.Context, cardNumber string, amount int64, opts models.Options) (*models.Result, error) {
	if cardNumber == "" {
		return nil, pkgerrors.NewValidationError("card_number", "card number is required")
	}
	req := balanceRequest{
		CardNumber:     cardNumber,
		Action:         actionAllocate,
		Transaction:    util.UUIDToTranNbr(uuid.New()),
		Amount:         a.amount(amount, opts),
		ReturnBalances: true,
	}
	return a.submit(ctx, actionAllocate, pathAllocate, req)
}

// Purchase redeems amount minor units from the card's balance
func (a *Adapter) Purchase(ctx context.Context, cardNumber string, amount int64, opts models.Options) (*models.Result, error) {
	if cardNumber == "" {
		return nil, pkgerrors.NewValidationError("card_number", "card number is required")
	}
	req := balanceRequest{
		CardNumber:     cardNumber,
		Action:         actionRedeem,
		Transaction:    util.UUIDToTranNbr(uuid.New()),
		Amount:         a.amount(amount, opts),
		ReturnBalances: true,
	}
	return a.submit(ctx, actionRedeem, pathUpdateBalance, req)
}

// Refund reloads amount minor units back onto the card
func (a *Adapter) Refund(ctx context.Context, cardNumber string, amount int64, opts models.Options) (*models.Result, error) {
	if cardNumber == "" {
		return nil, pkgerrors.NewValidationError("card_number", "card number is required")
	}
	req := balanceRequest{
		CardNumber:     cardNumber,
		Action:         actionReload,
		Transaction:    util.UUIDToTranNbr(uuid.New()),
		Amount:         a.amount(amount, opts),
		ReturnBalances: true,
	}
	return a.submit(ctx, actionReload, pathUpdateBalance, req)
}

// Balance looks up the card's current balances without moving funds
func (a *Adapter) Balance(ctx context.Context, cardNumber string) (*models.Result, error) {
	if cardNumber == "" {
		return nil, pkgerrors.NewValidationError("card_number", "card number is required")
	}
	req := balanceRequest{
		CardNumber:     cardNumber,
		ReturnBalances: true,
	}
	return a.submit(ctx, operationSearch, pathSearch, req)
}

func (a *Adapter) amount(minorUnits int64, opts models.Options) *amountBlock {
	return &amountBlock{
		BalanceType: defaultBalanceType,
		BalanceCode: opts.Currency,
		Amount:      util.Amount(minorUnits),
	}
}

// submit posts the JSON body and normalizes the reply. Success is the
// top-level boolean; transport errors and bodies that fail to parse become
// synthetic failure records. No retries at this layer.
func (a *Adapter) submit(ctx context.Context, operation, path string, req balanceRequest) (*models.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(a.config.APIKey, a.config.APISecret)
	httpReq.Header.Set("X-Brand", a.config.Brand)
	httpReq.Header.Set("X-Location", a.config.Location)
	httpReq.Header.Set("X-Terminal", a.config.Terminal)

	a.logger.Info("submitting Stratus transaction",
		zap.String("operation", operation),
		zap.String("path", path),
	)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.Error("failed to reach Stratus", zap.Error(err))
		return networkFailure(operation, err), nil
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		a.logger.Warn("undecodable Stratus response",
			zap.Int("status_code", httpResp.StatusCode),
			zap.Error(err),
		)
		return &models.Result{
			Success:   false,
			Message:   "malformed processor response",
			Operation: operation,
			Params: map[string]any{
				"error":    map[string]string{"message": err.Error()},
				"raw_body": string(raw),
			},
		}, nil
	}

	result := interpret(fields, operation)

	a.logger.Info("Stratus transaction processed",
		zap.String("operation", operation),
		zap.Bool("success", result.Success),
	)

	return result, nil
}

// networkFailure wraps a transport error into a failure Result. Connection
// failures normalize the same way undecodable bodies do, so every
// post-validation path hands the caller a Result.
func networkFailure(operation string, cause error) *models.Result {
	perr := pkgerrors.NewPaymentError("NETWORK_ERROR", "failed to connect to payment gateway", pkgerrors.CategoryNetworkError)
	return &models.Result{
		Success:   false,
		Message:   perr.Message,
		Operation: operation,
		Params: map[string]any{
			"error": map[string]string{
				"code":     perr.Code,
				"category": string(perr.Category),
				"message":  cause.Error(),
			},
		},
	}
}

func interpret(fields map[string]any, operation string) *models.Result {
	result := &models.Result{
		Operation: operation,
		Params:    fields,
	}

	success, _ := fields["success"].(bool)
	result.Success = success

	if msg, ok := fields["message"].(string); ok {
		result.Message = msg
	} else if errObj, ok := fields["error"].(map[string]any); ok {
		if msg, ok := errObj["message"].(string); ok {
			result.Message = msg
		}
	}

	if reference, ok := fields["reference"].(string); ok {
		result.Authorization = reference
	}

	if phrase, ok := fields["cvvResult"].(string); ok {
		result.CVV = ClassifyCVV(phrase)
	}

	return result
}
