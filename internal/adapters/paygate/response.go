package paygate

import (
	"github.com/cardwell-io/gateway/internal/domain/models"
	pkgerrors "github.com/cardwell-io/gateway/pkg/errors"
)

// statusAccepted is the status literal PayGate returns for accepted
// transactions. Every other value, including an absent status, is a failure.
const statusAccepted = "1"

// interpret classifies a decoded response map into a normalized Result
func interpret(fields map[string]any, operation string) *models.Result {
	result := &models.Result{
		Operation: operation,
		Params:    fields,
	}

	result.Success = stringField(fields, "status") == statusAccepted
	result.Message = stringField(fields, "reason")

	reference := stringField(fields, "reference")
	authCode := stringField(fields, "authcode")
	caReference := stringField(fields, "ca_reference")
	if reference != "" || authCode != "" || caReference != "" {
		result.Authorization = EncodeAuthorization(reference, authCode, caReference)
	}

	result.CVV = ClassifyCVV(cvvCode(fields))

	if rec := attrField(fields, "fraud_screen", "recommendation"); rec != "" {
		result.FraudRecommendation = rec
	} else {
		result.FraudRecommendation = stringField(fields, "fraud_screen")
	}

	return result
}

// syntheticFailure wraps an undecodable body into a failure Result so callers
// still receive a value with the raw text available for diagnostics.
func syntheticFailure(operation, rawBody string, cause error) *models.Result {
	message := "malformed processor response"
	params := map[string]any{
		"error":    map[string]string{"message": cause.Error()},
		"raw_body": rawBody,
	}
	return &models.Result{
		Success:   false,
		Message:   message,
		Operation: operation,
		Params:    params,
	}
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

// cvvCode reads the card-check result: the code attribute when the element
// carried attributes, otherwise the element body.
func cvvCode(fields map[string]any) string {
	if code := attrField(fields, "card_check", "code"); code != "" {
		return code
	}
	return stringField(fields, "card_check")
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func attrField(fields map[string]any, key, attr string) string {
	if m, ok := fields[key].(map[string]string); ok {
		return m[attr]
	}
	return ""
}
