package gateway

// orionPayload is the flat webhook body posted by Orion
type orionPayload struct {
	Event         string          `json:"event"`
	TransactionID string          `json:"transaction_id" validate:"required,max=200,nonul"`
	Status        string          `json:"status" validate:"required"`
	Amount        *int64          `json:"amount" validate:"required"`
	Customer      *orionCustomer  `json:"customer"`
	Offer         *orionOffer     `json:"offer"`
	CartItems     []orionCartItem `json:"cart_items" validate:"dive"`
	UTM           *orionUTM       `json:"utm"`
}

type orionCustomer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Mobile      string `json:"mobile"`
	Document    string `json:"document"`
}

type orionOffer struct {
	Title    string `json:"title"`
	Price    *int64 `json:"price"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
}

type orionCartItem struct {
	Title    string `json:"title"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	Price    *int64 `json:"price"`
}

type orionUTM struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Term     string `json:"term"`
	Src      string `json:"src"`
	Sck      string `json:"sck"`
}
