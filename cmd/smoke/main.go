package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	_ "github.com/joho/godotenv/autoload"

	"github.com/payme/sdk-go/pkg/config"
	"github.com/payme/sdk-go/pkg/payme"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Developer smoke check: authenticates with the credentials from the
// environment and walks every SDK operation once against the configured
// endpoints.
//
// Required env vars (besides the BASE_URL_* endpoints):
//   - PAYME_EMAIL
//   - PAYME_PASSWORD
//   - PAYME_SUBSCRIPTION_KEY
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[smoke] config: %v", err)
	}

	gw := payme.New(cfg,
		requiredEnv("PAYME_EMAIL"),
		requiredEnv("PAYME_PASSWORD"),
		requiredEnv("PAYME_SUBSCRIPTION_KEY"),
	)

	ctx := context.Background()
	if err := gw.Init(ctx); err != nil {
		log.Fatalf("[smoke] init: %v", err)
	}
	account, _ := gw.Account()
	log.Printf("[smoke] authenticated account_id=%d", account.Profile.ID)

	const amount = 100.0
	fees, err := gw.GetFees(ctx, amount, "CI")
	if err != nil {
		log.Fatalf("[smoke] get fees: %v", err)
	}
	log.Printf("[smoke] fee rule operand=%s value=%v band=[%v,%v)", fees.Operand, fees.Value, fees.MinAmount, fees.MaxAmount)

	reference := uuid.NewString()
	created, err := gw.PostPayment(ctx, payme.PaymentParam{
		Reference:   reference,
		Amount:      amount,
		Fees:        fees.Value,
		Tva:         1.5,
		Description: "sdk smoke payment",
	})
	if err != nil {
		log.Fatalf("[smoke] post payment: %v", err)
	}

	var tx struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(created, &tx); err != nil {
		log.Fatalf("[smoke] decoding created payment: %v", err)
	}
	log.Printf("[smoke] payment created reference=%s id=%d", reference, tx.ID)

	payment, err := gw.GetPaymentStatus(ctx, reference)
	if err != nil {
		log.Fatalf("[smoke] get payment status: %v", err)
	}
	log.Printf("[smoke] payment status reference=%s status=%s", payment.Reference, payment.Status)

	if _, err := gw.PostPaymentItem(ctx, payme.PaymentItemParam{
		Amount:        amount,
		Fees:          fees.Value,
		TransactionID: tx.ID,
		Phone:         requiredEnv("PAYME_SMOKE_PHONE"),
	}); err != nil {
		log.Fatalf("[smoke] post payment item: %v", err)
	}

	withItems, err := gw.GetPaymentWithItems(ctx, reference)
	if err != nil {
		log.Fatalf("[smoke] get payment with items: %v", err)
	}
	log.Printf("[smoke] payment reference=%s items=%d", withItems.Reference, len(withItems.PaymentItems))
}

func requiredEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("[smoke] required environment variable %s is not set", key)
	}
	return v
}
