package helloasso

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type payerPayload struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type checkoutIntentPayload struct {
	TotalAmount      int64             `json:"totalAmount"`
	InitialAmount    int64             `json:"initialAmount"`
	ItemName         string            `json:"itemName"`
	BackURL          string            `json:"backUrl"`
	ErrorURL         string            `json:"errorUrl"`
	ReturnURL        string            `json:"returnUrl"`
	ContainsDonation bool              `json:"containsDonation"`
	Payer            payerPayload      `json:"payer"`
	Metadata         map[string]string `json:"metadata"`
}

type checkoutIntentResponse struct {
	ID          int64  `json:"id"`
	RedirectURL string `json:"redirectUrl"`
}

type organizationResponse struct {
	Name string `json:"name"`
	Slug string `json:"organizationSlug"`
	City string `json:"city"`
	URL  string `json:"url"`
}
