package stratus

import (
	"strings"

	"github.com/cardwell-io/gateway/internal/domain/models"
)

// cvvPhraseInfo describes one Stratus CVV result phrase
type cvvPhraseInfo struct {
	Message string
	Matched bool
}

// Stratus reports CVV results as lowercase phrases rather than codes
var cvvPhrases = map[string]cvvPhraseInfo{
	"matched":      {Message: "CVV matches", Matched: true},
	"not matched":  {Message: "CVV does not match", Matched: false},
	"not checked":  {Message: "CVV not checked", Matched: false},
	"not provided": {Message: "CVV was not provided", Matched: false},
}

// ClassifyCVV maps a CVV result phrase to a normalized result. Unknown
// phrases keep the phrase with no message; classification never blocks
// transaction completion. An empty phrase yields nil.
func ClassifyCVV(phrase string) *models.CVVResult {
	if phrase == "" {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(phrase))
	info, ok := cvvPhrases[normalized]
	if !ok {
		return &models.CVVResult{Code: normalized}
	}
	return &models.CVVResult{Code: normalized, Message: info.Message, Matched: info.Matched}
}
