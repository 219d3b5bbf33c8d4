package gateway

// novaPayload is the webhook body posted by Nova
type novaPayload struct {
	Type     string        `json:"type"`
	SaleID   string        `json:"sale_id" validate:"required,max=200,nonul"`
	Status   string        `json:"status" validate:"required"`
	Value    *int64        `json:"value" validate:"required"`
	Client   *novaClient   `json:"client" validate:"required"`
	Product  *novaProduct  `json:"product"`
	Tracking *novaTracking `json:"tracking"`
}

type novaClient struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Cellphone string `json:"cellphone"`
	Document  string `json:"document"`
}

type novaProduct struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	Price    *int64 `json:"price"`
}

type novaTracking struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMContent  string `json:"utm_content"`
	UTMTerm     string `json:"utm_term"`
	Src         string `json:"src"`
	Sck         string `json:"sck"`
}
