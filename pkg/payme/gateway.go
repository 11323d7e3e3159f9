package payme

import (
	"context"
	encjson "encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/payme/sdk-go/pkg/config"
	"github.com/payme/sdk-go/pkg/payme/interfaces"
	"github.com/payme/sdk-go/pkg/transport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ interfaces.IApiClient = (*transport.Client)(nil)

const authenticatePath = "users/developer/authenticate"

// Gateway is the client of the PayMe platform. It authenticates a merchant
// once (Init) and then exposes the payment operations, each a single
// request/response round trip through the transport layer.
type Gateway struct {
	email           string
	password        string
	subscriptionKey string

	api interfaces.IApiClient

	mu      sync.RWMutex
	account *Account
}

// New builds a Gateway over a fresh transport client for cfg's endpoints.
func New(cfg config.Config, email, password, subscriptionKey string) *Gateway {
	return NewWithClient(transport.New(cfg), email, password, subscriptionKey)
}

// NewWithClient builds a Gateway over a caller-supplied transport.
func NewWithClient(api interfaces.IApiClient, email, password, subscriptionKey string) *Gateway {
	return &Gateway{
		email:           email,
		password:        password,
		subscriptionKey: subscriptionKey,
		api:             api,
	}
}

type authResponse struct {
	Data struct {
		User  Merchant `json:"user"`
		Token string   `json:"token"`
	} `json:"data"`
}

// Init authenticates the merchant against the onboarding service, selects
// the first individual profile as the active account and pushes the bearer
// token into the transport. It must succeed once before any other operation.
func (g *Gateway) Init(ctx context.Context) error {
	body := map[string]string{
		"email":            g.email,
		"password":         g.password,
		"subscription_key": g.subscriptionKey,
	}

	raw, err := g.api.Post(ctx, transport.ScopeOnboarding, authenticatePath, body)
	if err != nil {
		log.Printf("[payme][gateway] authenticate failed err=%v", err)
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	if len(raw) == 0 {
		log.Printf("[payme][gateway] authenticate returned empty response")
		return ErrAuthentication
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("%w: decoding authenticate response: %v", ErrAuthentication, err)
	}
	if resp.Data.Token == "" || len(resp.Data.User.IndividualProfiles) == 0 {
		log.Printf("[payme][gateway] authenticate response has no usable session token_set=%t profiles=%d",
			resp.Data.Token != "", len(resp.Data.User.IndividualProfiles))
		return ErrAuthentication
	}

	account := &Account{
		Merchant: resp.Data.User,
		Profile:  resp.Data.User.IndividualProfiles[0],
		Token:    resp.Data.Token,
	}

	g.mu.Lock()
	g.account = account
	g.mu.Unlock()
	g.api.SetToken(account.Token)

	log.Printf("[payme][gateway] authenticated merchant_id=%d account_id=%d", account.Merchant.ID, account.Profile.ID)
	return nil
}

// Account returns the active session, or ErrNotInitialized before Init.
func (g *Gateway) Account() (Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.account == nil {
		return Account{}, ErrNotInitialized
	}
	return *g.account, nil
}

// GetFees returns the fee rule whose band contains amount. When several
// bands overlap, the first rule in the platform's ordering wins. country is
// part of the public contract but the billing API does not filter on it.
func (g *Gateway) GetFees(ctx context.Context, amount float64, country string) (Fees, error) {
	if _, err := g.Account(); err != nil {
		return Fees{}, err
	}

	query, err := whereAmountBand(amount).values()
	if err != nil {
		return Fees{}, err
	}

	raw, err := g.api.Get(ctx, transport.ScopeBilling, "fees", query)
	if err != nil {
		return Fees{}, err
	}

	var rules []Fees
	if err := decodeList(raw, &rules); err != nil {
		return Fees{}, err
	}
	if len(rules) == 0 {
		log.Printf("[payme][gateway] no fee rule for amount=%v country=%s", amount, country)
		return Fees{}, ErrFeesNotFound
	}
	return rules[0], nil
}

// PostPayment submits a new payment for the active account and returns the
// platform's response as-is.
func (g *Gateway) PostPayment(ctx context.Context, param PaymentParam) (encjson.RawMessage, error) {
	account, err := g.Account()
	if err != nil {
		return nil, err
	}

	body := struct {
		PaymentParam
		AccountID int `json:"account_id"`
	}{PaymentParam: param, AccountID: account.Profile.ID}

	raw, err := g.api.Post(ctx, transport.ScopePayment, "transactions", body)
	if err != nil {
		log.Printf("[payme][gateway] post payment failed reference=%s err=%v", param.Reference, err)
		return nil, err
	}
	log.Printf("[payme][gateway] payment created reference=%s account_id=%d", param.Reference, account.Profile.ID)
	return raw, nil
}

// GetPaymentStatus returns the payment identified by reference, projected to
// its canonical field set.
func (g *Gateway) GetPaymentStatus(ctx context.Context, reference string) (Payment, error) {
	if _, err := g.Account(); err != nil {
		return Payment{}, err
	}

	query, err := whereReference(reference).values()
	if err != nil {
		return Payment{}, err
	}

	raw, err := g.api.Get(ctx, transport.ScopePayment, "transactions", query)
	if err != nil {
		return Payment{}, err
	}

	var payments []Payment
	if err := decodeList(raw, &payments); err != nil {
		return Payment{}, err
	}
	if len(payments) == 0 {
		return Payment{}, ErrPaymentNotFound
	}
	return payments[0], nil
}

// PostPaymentItem submits a new payment item and returns the platform's
// response as-is. An empty param.Reference is replaced by a generated UUID.
func (g *Gateway) PostPaymentItem(ctx context.Context, param PaymentItemParam) (encjson.RawMessage, error) {
	if _, err := g.Account(); err != nil {
		return nil, err
	}

	if param.Reference == "" {
		param.Reference = uuid.NewString()
	}

	raw, err := g.api.Post(ctx, transport.ScopePayment, "payment-items", param)
	if err != nil {
		log.Printf("[payme][gateway] post payment item failed reference=%s err=%v", param.Reference, err)
		return nil, err
	}
	log.Printf("[payme][gateway] payment item created reference=%s transaction_id=%d", param.Reference, param.TransactionID)
	return raw, nil
}

// GetPaymentItemStatus returns the payment item identified by reference,
// projected to its canonical field set.
func (g *Gateway) GetPaymentItemStatus(ctx context.Context, reference string) (PaymentItem, error) {
	if _, err := g.Account(); err != nil {
		return PaymentItem{}, err
	}

	query, err := whereReference(reference).values()
	if err != nil {
		return PaymentItem{}, err
	}

	raw, err := g.api.Get(ctx, transport.ScopePayment, "payment-items", query)
	if err != nil {
		return PaymentItem{}, err
	}

	var items []PaymentItem
	if err := decodeList(raw, &items); err != nil {
		return PaymentItem{}, err
	}
	if len(items) == 0 {
		return PaymentItem{}, ErrPaymentItemNotFound
	}
	return items[0], nil
}

// GetPaymentWithItems returns the payment identified by reference together
// with its payment items, each projected independently.
func (g *Gateway) GetPaymentWithItems(ctx context.Context, reference string) (PaymentWithItems, error) {
	if _, err := g.Account(); err != nil {
		return PaymentWithItems{}, err
	}

	f := whereReference(reference)
	f.Include = []string{"paymentItems"}
	query, err := f.values()
	if err != nil {
		return PaymentWithItems{}, err
	}

	raw, err := g.api.Get(ctx, transport.ScopePayment, "transactions", query)
	if err != nil {
		return PaymentWithItems{}, err
	}

	var payments []PaymentWithItems
	if err := decodeList(raw, &payments); err != nil {
		return PaymentWithItems{}, err
	}
	if len(payments) == 0 {
		return PaymentWithItems{}, ErrPaymentNotFound
	}
	return payments[0], nil
}

func decodeList[T any](raw encjson.RawMessage, out *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response list: %w", err)
	}
	return nil
}
