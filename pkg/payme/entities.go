package payme

// Resource records returned by the PayMe services. Each struct is the
// canonical field set of its resource: responses are unmarshalled straight
// into these types, so any extra field the platform sends is dropped at the
// boundary and the caller always sees the same shape.
//
// Timestamps stay opaque strings; their format belongs to the platform.

// Payment is a merchant transaction, identified by its reference.
type Payment struct {
	Reference   string  `json:"reference"`
	AccountID   int     `json:"account_id"`
	Amount      float64 `json:"amount"`
	Fees        float64 `json:"fees"`
	Tva         float64 `json:"tva"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// PaymentItem is a single customer payment belonging to a Payment (1:N).
type PaymentItem struct {
	Reference     string  `json:"reference"`
	PaymentID     int     `json:"payment_id"`
	CustomerID    int     `json:"customer_id"`
	Amount        float64 `json:"amount"`
	Fees          float64 `json:"fees"`
	Phone         string  `json:"phone"`
	PaymentMethod string  `json:"payment_method"`
	PaymentProof  string  `json:"payment_proof"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// PaymentWithItems is a Payment with its items eagerly included, in the
// ordering the platform returned them.
type PaymentWithItems struct {
	Payment
	PaymentItems []PaymentItem `json:"paymentItems"`
}

// Fees is a banded pricing rule, applicable when an amount falls within
// [MinAmount, MaxAmount).
type Fees struct {
	OperationType string  `json:"operation_type"`
	CorridorTag   string  `json:"corridor_tag"`
	Operand       string  `json:"operand"`
	MinAmount     float64 `json:"min_amount"`
	MaxAmount     float64 `json:"max_amount"`
	Value         float64 `json:"value"`
}

// Profile is one of a merchant's individual profiles on the platform; its ID
// is the account_id attached to created payments.
type Profile struct {
	ID int `json:"id"`
}

// Merchant is the authenticated platform user.
type Merchant struct {
	ID                 int       `json:"id"`
	Email              string    `json:"email"`
	IndividualProfiles []Profile `json:"individualProfiles"`
}

// Account is the session produced by Init: the merchant, the profile acting
// as the active account, and the bearer token. The platform may return
// several profiles; the first one is the active account.
type Account struct {
	Merchant Merchant
	Profile  Profile
	Token    string
}

// PaymentParam carries the caller-supplied fields of a new payment. The
// active account's id is attached by the gateway.
type PaymentParam struct {
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	Fees        float64 `json:"fees"`
	Tva         float64 `json:"tva"`
	Description string  `json:"description"`
}

// PaymentItemParam carries the fields of a new payment item. Reference is
// optional; an empty one is replaced by a generated UUID so the item stays
// addressable through GetPaymentItemStatus.
type PaymentItemParam struct {
	Reference       string  `json:"reference,omitempty"`
	Currency        string  `json:"currency,omitempty"`
	CustomerName    string  `json:"customer_name,omitempty"`
	CustomerEmail   string  `json:"customer_email,omitempty"`
	CustomerCountry string  `json:"customer_country,omitempty"`
	Amount          float64 `json:"amount"`
	Fees            float64 `json:"fees"`
	TransactionID   int     `json:"transaction_id"`
	Phone           string  `json:"phone"`
}
