package paygate

import (
	"fmt"
	"strconv"

	"github.com/cardwell-io/gateway/internal/domain/models"
	"github.com/cardwell-io/gateway/internal/util"
	pkgerrors "github.com/cardwell-io/gateway/pkg/errors"
)

// Wire operation names. "auth" settles immediately, "pre" holds funds for a
// later fulfill.
const (
	methodAuth      = "auth"
	methodPre       = "pre"
	methodRefund    = "refund"
	methodFulfill   = "fulfill"
	methodCancel    = "cancel"
	methodTxnRefund = "txn_refund"
	methodTokenize  = "tokenize"
)

const (
	defaultCurrency = "GBP"
	captureContAuth = "cont_auth"

	// salesChannel is the fixed channel code reported to the risk engine
	// for all submissions from this integration (internet orders).
	salesChannel = "3"
)

// builder assembles <Request> documents for one credential pair. It keeps no
// per-call state; every method returns a fresh document.
type builder struct {
	client   string
	password string
}

func (b builder) request(txn *Element) *Element {
	req := NewElement("Request")
	auth := req.AddChild("Authentication")
	auth.Add("client", b.client)
	auth.Add("password", b.password)
	req.Append(txn)
	return req
}

// cardTxn builds a simple auth/purchase ("pre"/"auth") or standalone credit
// ("refund") carrying raw card details.
func (b builder) cardTxn(method string, amount int64, card models.CardDetails, opts models.Options) *Element {
	txn := NewElement("Transaction")
	if opts.SetUpContinuousAuthority {
		txn.AddChild("ContAuthTxn").SetAttr("type", "setup")
	}
	cardTxn := txn.AddChild("CardTxn")
	cardTxn.Add("method", method)
	cardEl := cardElement(card, opts.BillingAddress)
	if opts.PIN != "" {
		cardEl.Add("pin", opts.PIN)
	}
	cardTxn.Append(cardEl)
	txn.Append(b.txnDetails(&amount, "", opts))
	return b.request(txn)
}

// tokenTxn builds an auth/purchase against a vault token. The card element is
// flagged type="token" and still carries expiry/CVV/address for verification.
func (b builder) tokenTxn(method string, amount int64, token models.VaultToken, opts models.Options) *Element {
	txn := NewElement("Transaction")
	if opts.SetUpContinuousAuthority {
		txn.AddChild("ContAuthTxn").SetAttr("type", "setup")
	}
	cardTxn := txn.AddChild("CardTxn")
	cardTxn.Add("method", method)

	card := cardTxn.AddChild("Card")
	card.SetAttr("type", "token")
	card.Add("token", token.Token)
	if token.Month != 0 || token.Year != 0 {
		card.Add("expirydate", expiryDate(token.Month, token.Year))
	}
	appendCardCheck(card, token.VerificationValue, opts.BillingAddress)
	if opts.PIN != "" {
		card.Add("pin", opts.PIN)
	}

	txn.Append(b.txnDetails(&amount, "", opts))
	return b.request(txn)
}

// contAuthTxn builds an auth/purchase against a standing continuous
// authority. The authorization's continuous-authority segment must be
// present; an empty segment fails before any network call.
func (b builder) contAuthTxn(method string, amount int64, authorization models.Authorization, opts models.Options) (*Element, error) {
	_, _, caReference := DecodeAuthorization(string(authorization))
	if caReference == "" {
		return nil, pkgerrors.NewMissingContinuousAuthorityError(string(authorization))
	}

	txn := NewElement("Transaction")
	txn.AddChild("ContAuthTxn").SetAttr("type", "historic")
	historic := txn.AddChild("HistoricTxn")
	historic.Add("reference", caReference)
	historic.Add("method", method)
	txn.Append(b.txnDetails(&amount, captureContAuth, opts))
	return b.request(txn), nil
}

// historicTxn builds a follow-up operation (fulfill/cancel/txn_refund)
// against a prior transaction. amount may be nil: voids normally omit it and
// a nil-amount txn_refund asks for a full refund.
func (b builder) historicTxn(method string, amount *int64, authorization string, opts models.Options) *Element {
	reference, authCode, _ := DecodeAuthorization(authorization)

	txn := NewElement("Transaction")
	historic := txn.AddChild("HistoricTxn")
	historic.Add("reference", reference)
	if authCode != "" {
		historic.Add("authcode", authCode)
	}
	historic.Add("method", method)
	txn.Append(b.txnDetails(amount, "", opts))
	return b.request(txn)
}

// tokenizeTxn builds a tokenization request: card PAN and a merchant
// reference, nothing else.
func (b builder) tokenizeTxn(pan, reference string) *Element {
	txn := NewElement("Transaction")
	tokenize := txn.AddChild("TokenizeTxn")
	tokenize.AddChild("Card").Add("pan", pan)
	tokenize.Add("method", methodTokenize)

	details := NewElement("TxnDetails")
	details.Add("merchantreference", util.FormatReference(reference))
	txn.Append(details)
	return b.request(txn)
}

// txnDetails builds the transaction-detail block. The fraud-screening
// sub-payload and the plain customer block are mutually exclusive in the wire
// grammar; fraud wins when both could apply.
func (b builder) txnDetails(amount *int64, captureMethod string, opts models.Options) *Element {
	details := NewElement("TxnDetails")
	if opts.OrderID != "" {
		details.Add("merchantreference", util.FormatReference(opts.OrderID))
	}
	if amount != nil {
		details.Add("amount", util.Amount(*amount)).SetAttr("currency", currency(opts))
	}
	if captureMethod != "" {
		details.Add("capturemethod", captureMethod)
	}
	if opts.PerformFraudCheck && opts.Fraud != nil {
		details.Append(fraudElement(opts.Fraud, opts))
	} else if opts.IP != "" || opts.Email != "" {
		customer := details.AddChild("Customer")
		if opts.IP != "" {
			customer.Add("ip", opts.IP)
		}
		if opts.Email != "" {
			customer.Add("email", opts.Email)
		}
	}
	return details
}

func currency(opts models.Options) string {
	if opts.Currency != "" {
		return opts.Currency
	}
	return defaultCurrency
}

func cardElement(card models.CardDetails, billing *models.Address) *Element {
	el := NewElement("Card")
	el.Add("pan", card.Number)
	el.Add("expirydate", expiryDate(card.Month, card.Year))
	if card.StartMonth != 0 && card.StartYear != 0 {
		el.Add("startdate", expiryDate(card.StartMonth, card.StartYear))
	}
	if card.IssueNumber != "" {
		el.Add("issuenumber", card.IssueNumber)
	}
	appendCardCheck(el, card.VerificationValue, billing)
	return el
}

func appendCardCheck(card *Element, cv2 string, billing *models.Address) {
	if cv2 == "" && billing == nil {
		return
	}
	check := card.AddChild("Cv2Avs")
	if cv2 != "" {
		check.Add("cv2", cv2)
	}
	if billing != nil {
		if billing.Address1 != "" {
			check.Add("street_address1", billing.Address1)
		}
		if billing.Address2 != "" {
			check.Add("street_address2", billing.Address2)
		}
		if billing.Zip != "" {
			check.Add("postcode", billing.Zip)
		}
	}
}

// fraudElement assembles the fraud-screening sub-payload submitted for
// real-time risk scoring.
func fraudElement(fraud *models.FraudContext, opts models.Options) *Element {
	el := NewElement("The3rdMan")

	info := el.AddChild("CustomerInformation")
	if !fraud.Customer.FirstPurchaseDate.IsZero() {
		info.Add("first_purchase_date", fraud.Customer.FirstPurchaseDate.Format("2006-01-02"))
	}
	if fraud.Delivery != nil {
		info.Add("delivery_name", fraud.Delivery.Name)
		info.Add("delivery_phone_number", fraud.Delivery.Phone)
	}
	if fraud.Customer.Email != "" {
		info.Add("email", fraud.Customer.Email)
	}
	if fraud.Billing != nil {
		info.Add("customer_name", fraud.Billing.Name)
		info.Add("telephone", fraud.Billing.Phone)
	}
	if fraud.Customer.IP != "" {
		info.Add("ip_address", fraud.Customer.IP)
	}
	info.Add("order_number", util.FormatReference(opts.OrderID))
	info.Add("sales_channel", salesChannel)
	info.Add("previous_purchase_count", strconv.Itoa(fraud.Customer.PreviousPurchaseCount))
	info.Add("previous_purchase_value", util.Amount(fraud.Customer.PreviousPurchaseValue))

	if fraud.Delivery != nil {
		el.Append(addressElement("DeliveryAddress", fraud.Delivery))
	}
	if fraud.Billing != nil {
		el.Append(addressElement("BillingAddress", fraud.Billing))
	}

	order := el.AddChild("OrderInformation")
	if fraud.Order.ShippingMethod != "" {
		order.Add("shipping_method", fraud.Order.ShippingMethod)
	}
	if fraud.Order.GiftMessage != "" {
		order.Add("gift_message", fraud.Order.GiftMessage)
	}
	if len(fraud.Order.Products) > 0 {
		// The list's count attribute echoes the first line's declared count.
		products := order.AddChild("Products")
		products.SetAttr("count", strconv.Itoa(fraud.Order.Products[0].Count))
		for _, p := range fraud.Order.Products {
			product := products.AddChild("Product")
			product.Add("sku", p.SKU)
			product.Add("product_id", p.ProductID)
			product.Add("quantity", strconv.Itoa(p.Quantity))
			product.Add("price", util.Amount(p.Price))
		}
	}

	if fraud.Callback != nil {
		realtime := el.AddChild("Realtime")
		realtime.Add("real_time_callback_format", fraud.Callback.Format)
		realtime.Add("real_time_callback", fraud.Callback.URL)
		if fraud.Callback.Options != "" {
			realtime.Add("real_time_callback_options", fraud.Callback.Options)
		}
	}

	return el
}

func addressElement(name string, addr *models.Address) *Element {
	el := NewElement(name)
	if addr.Name != "" {
		el.Add("name", addr.Name)
	}
	if addr.Address1 != "" {
		el.Add("street_address1", addr.Address1)
	}
	if addr.Address2 != "" {
		el.Add("street_address2", addr.Address2)
	}
	if addr.City != "" {
		el.Add("city", addr.City)
	}
	if addr.State != "" {
		el.Add("state", addr.State)
	}
	if addr.Zip != "" {
		el.Add("postcode", addr.Zip)
	}
	if addr.Country != "" {
		el.Add("country", addr.Country)
	}
	return el
}

func expiryDate(month, year int) string {
	return fmt.Sprintf("%02d/%02d", month, year%100)
}
