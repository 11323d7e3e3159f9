// Package platformtest is an in-memory stand-in for the three PayMe
// services (onboarding, billing, payment), used by the SDK tests. It speaks
// the same contract as the real platform: the developer authenticate
// handshake, bearer-token enforcement on data routes, and the JSON "filter"
// query parameter with lte/gt bounds, equality matching and relation
// includes. Served over TLS with a self-signed certificate, so tests also
// cover the client's disabled peer verification.
package platformtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/payme/sdk-go/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Credentials and identity accepted by the fake onboarding service.
const (
	Email           = "dev@merchant.test"
	Password        = "s3cret"
	SubscriptionKey = "sub-key-123"
	Token           = "tok-platformtest"

	MerchantID = 7
	AccountID  = 42
)

// Platform holds the in-memory state behind the fake services. Records keep
// their insertion order, so "first match" is deterministic for the tests
// that pin that policy.
type Platform struct {
	mu           sync.Mutex
	feeRules     []map[string]any
	transactions []map[string]any
	paymentItems []map[string]any
	nextID       int

	engine *gin.Engine
}

func New() *Platform {
	gin.SetMode(gin.TestMode)

	p := &Platform{nextID: 1}

	r := gin.New()
	r.POST("/onboarding/users/developer/authenticate", p.authenticate)

	authed := r.Group("/", p.requireToken)
	authed.GET("/billing/fees", p.listFees)
	authed.GET("/payment/transactions", p.listTransactions)
	authed.POST("/payment/transactions", p.createTransaction)
	authed.GET("/payment/payment-items", p.listPaymentItems)
	authed.POST("/payment/payment-items", p.createPaymentItem)

	p.engine = r
	return p
}

// Start serves the fake platform over TLS and returns a Config pointing all
// three scopes at it. The server is torn down with the test.
func (p *Platform) Start(t *testing.T) config.Config {
	t.Helper()
	srv := httptest.NewTLSServer(p.engine)
	t.Cleanup(srv.Close)
	return config.Config{
		BaseURLBilling:    srv.URL + "/billing",
		BaseURLOnboarding: srv.URL + "/onboarding",
		BaseURLPayment:    srv.URL + "/payment",
		HTTPTimeout:       5 * time.Second,
	}
}

// SeedFeeRule stores a fee rule as-is, extra fields included.
func (p *Platform) SeedFeeRule(rule map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feeRules = append(p.feeRules, rule)
}

// SeedTransaction stores a transaction, assigning an id when absent, and
// returns the id.
func (p *Platform) SeedTransaction(tx map[string]any) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := tx["id"]; !ok {
		tx["id"] = p.nextID
		p.nextID++
	}
	p.transactions = append(p.transactions, tx)
	return asInt(tx["id"])
}

// SeedPaymentItem stores a payment item as-is.
func (p *Platform) SeedPaymentItem(item map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paymentItems = append(p.paymentItems, item)
}

func (p *Platform) authenticate(c *gin.Context) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		SubscriptionKey string `json:"subscription_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Email != Email || req.Password != Password || req.SubscriptionKey != SubscriptionKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user": gin.H{
				"id":    MerchantID,
				"email": req.Email,
				"individualProfiles": []gin.H{
					{"id": AccountID},
					{"id": AccountID + 1},
				},
			},
			"token": Token,
		},
	})
}

func (p *Platform) requireToken(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
	}
}

func (p *Platform) listFees(c *gin.Context) {
	p.list(c, p.feeRules, nil)
}

func (p *Platform) listTransactions(c *gin.Context) {
	p.list(c, p.transactions, p.attachItems)
}

func (p *Platform) listPaymentItems(c *gin.Context) {
	p.list(c, p.paymentItems, nil)
}

type listFilter struct {
	Where   map[string]any `json:"where"`
	Include []string       `json:"include"`
}

func (p *Platform) list(c *gin.Context, records []map[string]any, include func(map[string]any, []string) map[string]any) {
	var f listFilter
	if raw := c.Query("filter"); raw != "" {
		if err := json.UnmarshalFromString(raw, &f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
			return
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		if !matches(r, f.Where) {
			continue
		}
		r = clone(r)
		if include != nil {
			r = include(r, f.Include)
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// attachItems resolves the paymentItems relation of a transaction. Caller
// holds the lock.
func (p *Platform) attachItems(tx map[string]any, includes []string) map[string]any {
	for _, rel := range includes {
		if rel != "paymentItems" {
			continue
		}
		items := make([]map[string]any, 0)
		for _, item := range p.paymentItems {
			if asInt(item["payment_id"]) == asInt(tx["id"]) {
				items = append(items, clone(item))
			}
		}
		tx["paymentItems"] = items
	}
	return tx
}

func (p *Platform) createTransaction(c *gin.Context) {
	p.create(c, &p.transactions, nil)
}

func (p *Platform) createPaymentItem(c *gin.Context) {
	// The platform links an item to its transaction through payment_id.
	p.create(c, &p.paymentItems, func(body map[string]any) {
		if _, ok := body["payment_id"]; !ok {
			body["payment_id"] = body["transaction_id"]
		}
	})
}

func (p *Platform) create(c *gin.Context, store *[]map[string]any, enrich func(map[string]any)) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	body["id"] = p.nextID
	p.nextID++
	if _, ok := body["status"]; !ok {
		body["status"] = "PENDING"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	body["created_at"] = now
	body["updated_at"] = now
	if enrich != nil {
		enrich(body)
	}

	*store = append(*store, body)
	c.JSON(http.StatusOK, clone(body))
}

// matches applies a loopback-style where clause: map conditions hold
// comparison operators, anything else is an equality check.
func matches(record map[string]any, where map[string]any) bool {
	for field, cond := range where {
		switch cond := cond.(type) {
		case map[string]any:
			val, ok := toFloat(record[field])
			if !ok {
				return false
			}
			for op, boundRaw := range cond {
				bound, ok := toFloat(boundRaw)
				if !ok {
					return false
				}
				switch op {
				case "lte":
					if !(val <= bound) {
						return false
					}
				case "lt":
					if !(val < bound) {
						return false
					}
				case "gte":
					if !(val >= bound) {
						return false
					}
				case "gt":
					if !(val > bound) {
						return false
					}
				default:
					return false
				}
			}
		default:
			if fmt.Sprintf("%v", record[field]) != fmt.Sprintf("%v", cond) {
				return false
			}
		}
	}
	return true
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asInt(v any) int {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}
