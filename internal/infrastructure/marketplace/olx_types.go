package marketplace

import "github.com/shopscout/backend/internal/domain/search"

// OLXOffersResponse is the response for the offers search
type OLXOffersResponse struct {
	Data     []OLXOffer `json:"data"`
	Metadata *struct {
		TotalElements int `json:"total_elements"`
	} `json:"metadata,omitempty"`
	Error *OLXError `json:"error,omitempty"`
}

// OLXError is the error envelope
type OLXError struct {
	Status search.FlexString `json:"status"`
	Title  string            `json:"title"`
	Detail string            `json:"detail"`
}

// OLXOffer is one classified listing
type OLXOffer struct {
	ID          search.FlexString `json:"id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Params      []OLXParam        `json:"params"`
	Photos      []struct {
		Link string `json:"link"`
	} `json:"photos"`
	Location *struct {
		City *struct {
			Name string `json:"name"`
		} `json:"city,omitempty"`
		Region *struct {
			Name string `json:"name"`
		} `json:"region,omitempty"`
	} `json:"location,omitempty"`
	Category *struct {
		ID   search.FlexString `json:"id"`
		Type string            `json:"type"`
	} `json:"category,omitempty"`
	Promotion *struct {
		Highlighted bool `json:"highlighted"`
		TopAd       bool `json:"top_ad"`
	} `json:"promotion,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
}

// OLXParam is a typed listing attribute; the price is the one with key "price"
type OLXParam struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value struct {
		Key      string            `json:"key,omitempty"`
		Label    string            `json:"label"`
		Value    search.FlexString `json:"value,omitempty"`
		Currency string            `json:"currency,omitempty"`
	} `json:"value"`
}
