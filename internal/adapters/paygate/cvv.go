package paygate

import (
	"github.com/cardwell-io/gateway/internal/domain/models"
)

// cvvCodeInfo describes one PayGate card-check result code
type cvvCodeInfo struct {
	Message string
	Matched bool
}

// Card-check result codes returned in the CardCheck element's code attribute
var cvvCodes = map[string]cvvCodeInfo{
	"M": {Message: "CVV matches", Matched: true},
	"N": {Message: "CVV does not match", Matched: false},
	"P": {Message: "CVV not processed", Matched: false},
	"S": {Message: "CVV should have been present", Matched: false},
	"U": {Message: "Issuer was not certified for CVV", Matched: false},
}

// ClassifyCVV maps a card-check code to a normalized result. Unknown codes
// keep the code with no message; classification is best-effort and never
// blocks transaction completion. An empty code yields nil.
func ClassifyCVV(code string) *models.CVVResult {
	if code == "" {
		return nil
	}
	info, ok := cvvCodes[code]
	if !ok {
		return &models.CVVResult{Code: code}
	}
	return &models.CVVResult{Code: code, Message: info.Message, Matched: info.Matched}
}
