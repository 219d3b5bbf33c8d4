package gateway

// vegaPayload is the webhook body posted by Vega
type vegaPayload struct {
	Event string    `json:"event" validate:"required"`
	Data  *vegaData `json:"data" validate:"required"`
}

type vegaData struct {
	Transaction string        `json:"transaction" validate:"required,max=200,nonul"`
	Status      string        `json:"status" validate:"required"`
	Amount      *int64        `json:"amount" validate:"required"`
	Buyer       *vegaBuyer    `json:"buyer"`
	Offer       *vegaOffer    `json:"offer"`
	Tracking    *vegaTracking `json:"tracking"`
}

type vegaBuyer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

type vegaOffer struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	Price    *int64 `json:"price"`
}

type vegaTracking struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Term     string `json:"term"`
	Src      string `json:"src"`
	Sck      string `json:"sck"`
}
