package payme

import (
	"context"
	encjson "encoding/json"
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	mock_interfaces "github.com/payme/sdk-go/pkg/payme/interfaces/mocks"
	"github.com/payme/sdk-go/pkg/transport"
)

const (
	testEmail    = "dev@merchant.test"
	testPassword = "s3cret"
	testKey      = "sub-key-123"
	testToken    = "tok-1"
)

func authOKBody() encjson.RawMessage {
	return encjson.RawMessage(`{"data":{"user":{"id":7,"email":"dev@merchant.test","individualProfiles":[{"id":42},{"id":43}]},"token":"tok-1"}}`)
}

func newMockGateway(t *testing.T) (*Gateway, *mock_interfaces.MockIApiClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mock_interfaces.NewMockIApiClient(ctrl)
	return NewWithClient(api, testEmail, testPassword, testKey), api
}

func initializedGateway(t *testing.T) (*Gateway, *mock_interfaces.MockIApiClient) {
	t.Helper()
	g, api := newMockGateway(t)
	api.EXPECT().Post(gomock.Any(), transport.ScopeOnboarding, authenticatePath, gomock.Any()).Return(authOKBody(), nil)
	api.EXPECT().SetToken(testToken)
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return g, api
}

func TestGateway_Init(t *testing.T) {
	t.Run("success selects first profile and pushes token", func(t *testing.T) {
		g, api := newMockGateway(t)

		api.EXPECT().
			Post(gomock.Any(), transport.ScopeOnboarding, authenticatePath, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, body any) (encjson.RawMessage, error) {
				creds, ok := body.(map[string]string)
				if !ok {
					t.Fatalf("unexpected body type %T", body)
				}
				want := map[string]string{
					"email":            testEmail,
					"password":         testPassword,
					"subscription_key": testKey,
				}
				if !reflect.DeepEqual(creds, want) {
					t.Fatalf("unexpected credentials %v", creds)
				}
				return authOKBody(), nil
			})
		api.EXPECT().SetToken(testToken)

		if err := g.Init(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		account, err := g.Account()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Profile.ID != 42 {
			t.Fatalf("expected first profile (42) selected, got %d", account.Profile.ID)
		}
		if account.Merchant.ID != 7 || account.Token != testToken {
			t.Fatalf("unexpected account %+v", account)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		g, api := newMockGateway(t)
		api.EXPECT().
			Post(gomock.Any(), transport.ScopeOnboarding, authenticatePath, gomock.Any()).
			Return(nil, errors.New("connection refused"))

		err := g.Init(context.Background())
		if !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
		if _, err := g.Account(); !errors.Is(err, ErrNotInitialized) {
			t.Fatal("account must stay unset after a failed init")
		}
	})

	t.Run("empty response", func(t *testing.T) {
		g, api := newMockGateway(t)
		api.EXPECT().
			Post(gomock.Any(), transport.ScopeOnboarding, authenticatePath, gomock.Any()).
			Return(nil, nil)

		if err := g.Init(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		g, api := newMockGateway(t)
		api.EXPECT().
			Post(gomock.Any(), transport.ScopeOnboarding, authenticatePath, gomock.Any()).
			Return(encjson.RawMessage(`{"data":{"user":{"individualProfiles":[{"id":42}]}}}`), nil)

		if err := g.Init(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("no individual profiles", func(t *testing.T) {
		g, api := newMockGateway(t)
		api.EXPECT().
			Post(gomock.Any(), transport.ScopeOnboarding, authenticatePath, gomock.Any()).
			Return(encjson.RawMessage(`{"data":{"user":{"individualProfiles":[]},"token":"tok-1"}}`), nil)

		if err := g.Init(context.Background()); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
	})
}

func TestGateway_RequiresInit(t *testing.T) {
	g, _ := newMockGateway(t)
	ctx := context.Background()

	ops := map[string]func() error{
		"GetFees":              func() error { _, err := g.GetFees(ctx, 50, "CI"); return err },
		"PostPayment":          func() error { _, err := g.PostPayment(ctx, PaymentParam{}); return err },
		"GetPaymentStatus":     func() error { _, err := g.GetPaymentStatus(ctx, "R1"); return err },
		"PostPaymentItem":      func() error { _, err := g.PostPaymentItem(ctx, PaymentItemParam{}); return err },
		"GetPaymentItemStatus": func() error { _, err := g.GetPaymentItemStatus(ctx, "R1"); return err },
		"GetPaymentWithItems":  func() error { _, err := g.GetPaymentWithItems(ctx, "R1"); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, ErrNotInitialized) {
				t.Fatalf("expected ErrNotInitialized, got %v", err)
			}
		})
	}
}

func TestGateway_GetFees(t *testing.T) {
	t.Run("first matching rule wins, extra fields dropped", func(t *testing.T) {
		g, api := initializedGateway(t)

		api.EXPECT().
			Get(gomock.Any(), transport.ScopeBilling, "fees", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, query url.Values) (encjson.RawMessage, error) {
				want := `{"where":{"max_amount":{"gt":50},"min_amount":{"lte":50}}}`
				if got := query.Get("filter"); got != want {
					t.Fatalf("unexpected filter\n got: %s\nwant: %s", got, want)
				}
				return encjson.RawMessage(`[
					{"id":1,"operation_type":"cashin","corridor_tag":"CI","operand":"percentage","min_amount":0,"max_amount":100,"value":2,"internal_rank":9},
					{"id":2,"operation_type":"cashin","corridor_tag":"CI","operand":"percentage","min_amount":0,"max_amount":200,"value":3}
				]`), nil
			})

		fees, err := g.GetFees(context.Background(), 50, "CI")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Fees{OperationType: "cashin", CorridorTag: "CI", Operand: "percentage", MinAmount: 0, MaxAmount: 100, Value: 2}
		if fees != want {
			t.Fatalf("unexpected fees %+v", fees)
		}
	})

	t.Run("no matching rule", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopeBilling, "fees", gomock.Any()).
			Return(encjson.RawMessage(`[]`), nil)

		if _, err := g.GetFees(context.Background(), 5000, "CI"); !errors.Is(err, ErrFeesNotFound) {
			t.Fatalf("expected ErrFeesNotFound, got %v", err)
		}
	})

	t.Run("transport error propagates", func(t *testing.T) {
		g, api := initializedGateway(t)
		boom := errors.New("boom")
		api.EXPECT().
			Get(gomock.Any(), transport.ScopeBilling, "fees", gomock.Any()).
			Return(nil, boom)

		if _, err := g.GetFees(context.Background(), 50, "CI"); !errors.Is(err, boom) {
			t.Fatalf("expected transport error, got %v", err)
		}
	})
}

func TestGateway_PostPayment(t *testing.T) {
	g, api := initializedGateway(t)

	api.EXPECT().
		Post(gomock.Any(), transport.ScopePayment, "transactions", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, body any) (encjson.RawMessage, error) {
			raw, err := encjson.Marshal(body)
			if err != nil {
				t.Fatalf("marshalling body: %v", err)
			}
			var fields map[string]any
			if err := encjson.Unmarshal(raw, &fields); err != nil {
				t.Fatalf("unmarshalling body: %v", err)
			}
			if fields["account_id"] != float64(42) {
				t.Fatalf("expected active account_id merged into body, got %v", fields["account_id"])
			}
			if fields["reference"] != "R1" || fields["amount"] != float64(100) {
				t.Fatalf("unexpected body %v", fields)
			}
			return encjson.RawMessage(`{"id":9,"reference":"R1","status":"PENDING"}`), nil
		})

	raw, err := g.PostPayment(context.Background(), PaymentParam{
		Reference: "R1", Amount: 100, Fees: 5, Tva: 1, Description: "d",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"id":9,"reference":"R1","status":"PENDING"}` {
		t.Fatalf("expected raw provider response passthrough, got %s", raw)
	}
}

func TestGateway_GetPaymentStatus(t *testing.T) {
	t.Run("projected to canonical fields", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "transactions", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, query url.Values) (encjson.RawMessage, error) {
				want := `{"where":{"reference":"R1"}}`
				if got := query.Get("filter"); got != want {
					t.Fatalf("unexpected filter %s", got)
				}
				return encjson.RawMessage(`[{
					"id":9,"reference":"R1","account_id":42,"amount":100,"fees":5,"tva":1,
					"description":"d","status":"SUCCESS","created_at":"2026-08-29T10:00:00Z",
					"updated_at":"2026-08-29T10:05:00Z","payment_type":"simple","internal_score":3
				}]`), nil
			})

		payment, err := g.GetPaymentStatus(context.Background(), "R1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Payment{
			Reference: "R1", AccountID: 42, Amount: 100, Fees: 5, Tva: 1,
			Description: "d", Status: "SUCCESS",
			CreatedAt: "2026-08-29T10:00:00Z", UpdatedAt: "2026-08-29T10:05:00Z",
		}
		if payment != want {
			t.Fatalf("unexpected payment %+v", payment)
		}
	})

	t.Run("first of several matches", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "transactions", gomock.Any()).
			Return(encjson.RawMessage(`[{"reference":"R1","status":"FIRST"},{"reference":"R1","status":"SECOND"}]`), nil)

		payment, err := g.GetPaymentStatus(context.Background(), "R1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != "FIRST" {
			t.Fatalf("expected first match, got %+v", payment)
		}
	})

	t.Run("not found", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "transactions", gomock.Any()).
			Return(encjson.RawMessage(`[]`), nil)

		if _, err := g.GetPaymentStatus(context.Background(), "missing"); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestGateway_PostPaymentItem(t *testing.T) {
	t.Run("empty reference defaults to a uuid", func(t *testing.T) {
		g, api := initializedGateway(t)

		api.EXPECT().
			Post(gomock.Any(), transport.ScopePayment, "payment-items", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, body any) (encjson.RawMessage, error) {
				param, ok := body.(PaymentItemParam)
				if !ok {
					t.Fatalf("unexpected body type %T", body)
				}
				if _, err := uuid.Parse(param.Reference); err != nil {
					t.Fatalf("expected generated uuid reference, got %q", param.Reference)
				}
				return encjson.RawMessage(`{"id":11}`), nil
			})

		if _, err := g.PostPaymentItem(context.Background(), PaymentItemParam{Amount: 100, Fees: 2, TransactionID: 9, Phone: "+2250700000001"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("caller reference preserved", func(t *testing.T) {
		g, api := initializedGateway(t)

		api.EXPECT().
			Post(gomock.Any(), transport.ScopePayment, "payment-items", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, body any) (encjson.RawMessage, error) {
				if body.(PaymentItemParam).Reference != "ITEM-1" {
					t.Fatalf("unexpected reference %q", body.(PaymentItemParam).Reference)
				}
				return encjson.RawMessage(`{"id":12}`), nil
			})

		if _, err := g.PostPaymentItem(context.Background(), PaymentItemParam{Reference: "ITEM-1", Amount: 10, TransactionID: 9, Phone: "+2250700000001"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestGateway_GetPaymentItemStatus(t *testing.T) {
	t.Run("projected", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "payment-items", gomock.Any()).
			Return(encjson.RawMessage(`[{
				"id":11,"reference":"ITEM-1","payment_id":9,"customer_id":3,"amount":100,"fees":2,
				"phone":"+2250700000001","payment_method":"OM","payment_proof":"rcpt-1",
				"status":"SUCCESS","created_at":"c","updated_at":"u","operator_payload":{"raw":true}
			}]`), nil)

		item, err := g.GetPaymentItemStatus(context.Background(), "ITEM-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := PaymentItem{
			Reference: "ITEM-1", PaymentID: 9, CustomerID: 3, Amount: 100, Fees: 2,
			Phone: "+2250700000001", PaymentMethod: "OM", PaymentProof: "rcpt-1",
			Status: "SUCCESS", CreatedAt: "c", UpdatedAt: "u",
		}
		if item != want {
			t.Fatalf("unexpected item %+v", item)
		}
	})

	t.Run("not found", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "payment-items", gomock.Any()).
			Return(encjson.RawMessage(`[]`), nil)

		if _, err := g.GetPaymentItemStatus(context.Background(), "missing"); !errors.Is(err, ErrPaymentItemNotFound) {
			t.Fatalf("expected ErrPaymentItemNotFound, got %v", err)
		}
	})
}

func TestGateway_GetPaymentWithItems(t *testing.T) {
	t.Run("payment and items projected independently", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "transactions", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ transport.Scope, _ string, query url.Values) (encjson.RawMessage, error) {
				want := `{"where":{"reference":"R1"},"include":["paymentItems"]}`
				if got := query.Get("filter"); got != want {
					t.Fatalf("unexpected filter %s", got)
				}
				return encjson.RawMessage(`[{
					"reference":"R1","account_id":42,"amount":100,"fees":5,"tva":1,"description":"d",
					"status":"SUCCESS","created_at":"c","updated_at":"u","payment_type":"simple",
					"paymentItems":[
						{"reference":"ITEM-1","payment_id":9,"customer_id":3,"amount":60,"fees":1,"phone":"p1","payment_method":"OM","payment_proof":"r1","status":"SUCCESS","created_at":"c1","updated_at":"u1","extra":"x"},
						{"reference":"ITEM-2","payment_id":9,"customer_id":4,"amount":40,"fees":1,"phone":"p2","payment_method":"MOMO","payment_proof":"r2","status":"PENDING","created_at":"c2","updated_at":"u2"}
					]
				}]`), nil
			})

		payment, err := g.GetPaymentWithItems(context.Background(), "R1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Reference != "R1" || payment.Status != "SUCCESS" {
			t.Fatalf("unexpected payment %+v", payment.Payment)
		}
		if len(payment.PaymentItems) != 2 {
			t.Fatalf("expected 2 items, got %d", len(payment.PaymentItems))
		}
		if payment.PaymentItems[0].Reference != "ITEM-1" || payment.PaymentItems[1].Reference != "ITEM-2" {
			t.Fatalf("item ordering not preserved: %+v", payment.PaymentItems)
		}
		wantFirst := PaymentItem{
			Reference: "ITEM-1", PaymentID: 9, CustomerID: 3, Amount: 60, Fees: 1,
			Phone: "p1", PaymentMethod: "OM", PaymentProof: "r1",
			Status: "SUCCESS", CreatedAt: "c1", UpdatedAt: "u1",
		}
		if payment.PaymentItems[0] != wantFirst {
			t.Fatalf("unexpected first item %+v", payment.PaymentItems[0])
		}
	})

	t.Run("not found", func(t *testing.T) {
		g, api := initializedGateway(t)
		api.EXPECT().
			Get(gomock.Any(), transport.ScopePayment, "transactions", gomock.Any()).
			Return(encjson.RawMessage(`[]`), nil)

		if _, err := g.GetPaymentWithItems(context.Background(), "missing"); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})
}
