package gateway

// lyraPayload is the webhook body posted by Lyra. Tracking parameters are
// sent flat at the top level.
type lyraPayload struct {
	Event       string        `json:"event" validate:"required"`
	Payment     *lyraPayment  `json:"payment" validate:"required"`
	Customer    *lyraCustomer `json:"customer"`
	Product     *lyraProduct  `json:"product"`
	UTMSource   string        `json:"utm_source"`
	UTMMedium   string        `json:"utm_medium"`
	UTMCampaign string        `json:"utm_campaign"`
	UTMContent  string        `json:"utm_content"`
	UTMTerm     string        `json:"utm_term"`
	Src         string        `json:"src"`
	Sck         string        `json:"sck"`
}

type lyraPayment struct {
	ID     string `json:"id" validate:"required,max=200,nonul"`
	Status string `json:"status"`
	Amount *int64 `json:"amount" validate:"required"`
	Method string `json:"method"`
}

type lyraCustomer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

type lyraProduct struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	Price    *int64 `json:"price"`
}
