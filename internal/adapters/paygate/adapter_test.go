package paygate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cardwell-io/gateway/internal/domain/models"
	pkgerrors "github.com/cardwell-io/gateway/pkg/errors"
	"github.com/cardwell-io/gateway/test/mocks"
)

const authSuccessXML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
	<status>1</status>
	<reason>ACCEPTED</reason>
	<reference>4400200050462557</reference>
	<authcode>100000</authcode>
	<CAReference>CA3155</CAReference>
	<CardCheck code="M">matched</CardCheck>
</Response>`

const declinedXML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
	<status>7</status>
	<reason>DECLINED</reason>
</Response>`

const voidSuccessXML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
	<status>1</status>
	<reason>CANCELLED OK</reason>
	<reference>4400200050462558</reference>
</Response>`

const tokenizeSuccessXML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
	<status>1</status>
	<reason>ACCEPTED</reason>
	<token>tok_8842</token>
</Response>`

func setupAdapterTest(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	server := httptest.NewServer(handler)
	adapter := NewAdapter(Config{
		Client:   "99000001",
		Password: "secret",
		Endpoint: server.URL,
	}, nil, zaptest.NewLogger(t))
	return adapter, server
}

func mockAdapter(t *testing.T, client *mocks.MockHTTPClient) *Adapter {
	return NewAdapter(Config{
		Client:   "99000001",
		Password: "secret",
		Endpoint: "https://paygate.invalid/Transaction",
	}, client, zaptest.NewLogger(t))
}

func TestAdapter_Authorize_Success(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "99000001", user)
		assert.Equal(t, "secret", pass)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "<method>pre</method>")
		assert.Contains(t, string(body), "<pan>4111111111111111</pan>")
		assert.Contains(t, string(body), `<amount currency="USD">100.00</amount>`)

		w.Write([]byte(authSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Authorize(context.Background(), 10000, models.CardDetails{
		Number: "4111111111111111",
		Month:  6,
		Year:   2028,
	}, models.Options{OrderID: "order-1", Currency: "USD"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ACCEPTED", result.Message)
	assert.Equal(t, "4400200050462557;100000;CA3155", result.Authorization)
	require.NotNil(t, result.CVV)
	assert.True(t, result.CVV.Matched)
	assert.Equal(t, "pre", result.Operation)
}

func TestAdapter_Purchase_UsesAuthMethod(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<method>auth</method>")
		w.Write([]byte(authSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Purchase(context.Background(), 10000, models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028}, models.Options{OrderID: "order-1"})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestAdapter_Authorize_MissingOrderID(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := mockAdapter(t, client)

	result, err := adapter.Authorize(context.Background(), 10000, models.CardDetails{Number: "4111111111111111"}, models.Options{})

	assert.Nil(t, result)
	var validation *pkgerrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "order_id", validation.Field)
	assert.Empty(t, client.Calls, "no network call on validation failure")
}

func TestAdapter_Authorize_RequirePINWithoutPIN(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := mockAdapter(t, client)

	result, err := adapter.Authorize(context.Background(), 10000, models.CardDetails{Number: "4111111111111111"}, models.Options{
		OrderID:    "order-1",
		RequirePIN: true,
	})

	assert.Nil(t, result)
	var validation *pkgerrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "pin", validation.Field)
	assert.Empty(t, client.Calls, "no network call on validation failure")
}

func TestAdapter_Purchase_MissingContinuousAuthority(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := mockAdapter(t, client)

	result, err := adapter.Purchase(context.Background(), 10000, models.Authorization("REF1;;"), models.Options{OrderID: "order-1"})

	assert.Nil(t, result)
	var missing *pkgerrors.MissingContinuousAuthorityError
	require.ErrorAs(t, err, &missing)
	assert.Empty(t, client.Calls, "no network call without a continuous authority")
}

func TestAdapter_Capture_AfterAuthorize(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<reference>REF1</reference>")
		assert.Contains(t, string(body), "<authcode>AUTH1</authcode>")
		assert.Contains(t, string(body), "<method>fulfill</method>")
		assert.Contains(t, string(body), `<amount currency="USD">100.00</amount>`)
		w.Write([]byte(authSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Capture(context.Background(), 10000, models.Authorization("REF1;AUTH1;"), models.Options{Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "fulfill", result.Operation)
}

func TestAdapter_Void_OmitsAmount(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<method>cancel</method>")
		assert.NotContains(t, string(body), "<amount")
		w.Write([]byte(voidSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Void(context.Background(), models.Authorization("REF1;AUTH1;"), models.Options{})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestAdapter_Refund_FullRefundOmitsAmount(t *testing.T) {
	var captured string
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.Write([]byte(authSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Refund(context.Background(), nil, "REF1", models.Options{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, captured, "<method>txn_refund</method>")
	assert.NotContains(t, captured, "<amount")
}

func TestAdapter_Refund_PartialCarriesAmount(t *testing.T) {
	var captured string
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.Write([]byte(authSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	amount := int64(5000)
	_, err := adapter.Refund(context.Background(), &amount, "REF1", models.Options{Currency: "USD"})
	require.NoError(t, err)
	assert.Contains(t, captured, `<amount currency="USD">50.00</amount>`)
}

func TestAdapter_Decline_IsResultNotError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(declinedXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Purchase(context.Background(), 10000, models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028}, models.Options{OrderID: "order-1"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "DECLINED", result.Message)
}

func TestAdapter_MalformedResponseBecomesSyntheticFailure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Purchase(context.Background(), 10000, models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028}, models.Options{OrderID: "order-1"})
	require.NoError(t, err, "undecodable bodies yield a Result, not an error")
	assert.False(t, result.Success)
	assert.Equal(t, "Internal Server Error", result.Params["raw_body"])
}

func TestAdapter_ErrorStatusWithParseableBodyStillDecodes(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(declinedXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Purchase(context.Background(), 10000, models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028}, models.Options{OrderID: "order-1"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "DECLINED", result.Message)
}

func TestAdapter_NetworkFailureYieldsResult(t *testing.T) {
	client := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	adapter := mockAdapter(t, client)

	result, err := adapter.Purchase(context.Background(), 10000, models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028}, models.Options{OrderID: "order-1"})

	require.NoError(t, err, "transport failures yield a Result, not an error")
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "auth", result.Operation)
	assert.Equal(t, "failed to connect to payment gateway", result.Message)

	errRecord, ok := result.Params["error"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "NETWORK_ERROR", errRecord["code"])
	assert.Equal(t, string(pkgerrors.CategoryNetworkError), errRecord["category"])
	assert.Equal(t, "connection refused", errRecord["message"])
}

func TestAdapter_CreateProfile_AuthorizeFailureStopsChoreography(t *testing.T) {
	client := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return mocks.XMLResponse(declinedXML), nil
	})
	adapter := mockAdapter(t, client)

	result, err := adapter.CreateProfile(context.Background(), models.Profile{
		Card: models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "pre", result.Operation, "failure surfaces from the probe authorize")
	assert.Len(t, client.Calls, 1, "void and tokenize must never run")
}

func TestAdapter_CreateProfile_VoidFailureReturnsVoidResult(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	client.DoFunc = func(req *http.Request) (*http.Response, error) {
		if len(client.Calls) == 1 {
			return mocks.XMLResponse(authSuccessXML), nil
		}
		return mocks.XMLResponse(declinedXML), nil
	}
	adapter := mockAdapter(t, client)

	result, err := adapter.CreateProfile(context.Background(), models.Profile{
		Card: models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "cancel", result.Operation, "failure surfaces from the void step")
	assert.Len(t, client.Calls, 2, "tokenize must never run")
}

func TestAdapter_CreateProfile_Success(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	client.DoFunc = func(req *http.Request) (*http.Response, error) {
		switch len(client.Calls) {
		case 1:
			return mocks.XMLResponse(authSuccessXML), nil
		case 2:
			return mocks.XMLResponse(voidSuccessXML), nil
		default:
			return mocks.XMLResponse(tokenizeSuccessXML), nil
		}
	}
	adapter := mockAdapter(t, client)

	result, err := adapter.CreateProfile(context.Background(), models.Profile{
		Card:  models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028},
		Email: "jo@example.com",
		IP:    "10.1.1.1",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "tokenize", result.Operation)
	assert.Equal(t, "tok_8842", result.Params["token"])
	require.Len(t, client.Calls, 3)

	// Probe authorize holds exactly one minor unit.
	assert.Contains(t, client.RequestBodies[0], "<method>pre</method>")
	assert.Contains(t, client.RequestBodies[0], ">0.01</amount>")

	// Void references the probe's authorization and carries no amount.
	assert.Contains(t, client.RequestBodies[1], "<method>cancel</method>")
	assert.Contains(t, client.RequestBodies[1], "<reference>4400200050462557</reference>")
	assert.Contains(t, client.RequestBodies[1], "<authcode>100000</authcode>")
	assert.NotContains(t, client.RequestBodies[1], "<amount")

	assert.Contains(t, client.RequestBodies[2], "<TokenizeTxn>")
	assert.Contains(t, client.RequestBodies[2], "<pan>4111111111111111</pan>")
}

func TestAdapter_Credit_StandaloneCard(t *testing.T) {
	var captured string
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.Write([]byte(authSuccessXML))
	}

	adapter, server := setupAdapterTest(t, handler)
	defer server.Close()

	result, err := adapter.Credit(context.Background(), 2500, models.CardDetails{Number: "4111111111111111", Month: 6, Year: 2028}, models.Options{OrderID: "order-1"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, captured, "<method>refund</method>")
	assert.Contains(t, captured, ">25.00</amount>")
}
