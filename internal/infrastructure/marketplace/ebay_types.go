package marketplace

import "github.com/shopscout/backend/internal/domain/search"

// EbaySearchResponse is the response for item_summary/search
type EbaySearchResponse struct {
	Total         int64             `json:"total"`
	Limit         int               `json:"limit"`
	ItemSummaries []EbayItemSummary `json:"itemSummaries"`
	Warnings      []EbayErrorDetail `json:"warnings,omitempty"`
	Errors        []EbayErrorDetail `json:"errors,omitempty"`
}

// EbayErrorDetail is an error or warning entry
type EbayErrorDetail struct {
	ErrorID  int    `json:"errorId"`
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// EbayAmount is a monetary value
type EbayAmount struct {
	Value    search.FlexString `json:"value"`
	Currency string            `json:"currency"`
}

// EbayItemSummary is one listing in a search result
type EbayItemSummary struct {
	ItemID           string      `json:"itemId"`
	Title            string      `json:"title"`
	Price            *EbayAmount `json:"price,omitempty"`
	CurrentBidPrice  *EbayAmount `json:"currentBidPrice,omitempty"`
	Condition        string      `json:"condition,omitempty"`
	ItemWebURL       string      `json:"itemWebUrl"`
	ItemAffiliateURL string      `json:"itemAffiliateWebUrl,omitempty"`
	ShortDescription string      `json:"shortDescription,omitempty"`
	Image            *struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image,omitempty"`
	ThumbnailImages []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"thumbnailImages,omitempty"`
	Categories []struct {
		CategoryID   string `json:"categoryId"`
		CategoryName string `json:"categoryName"`
	} `json:"categories,omitempty"`
	Seller *struct {
		Username           string            `json:"username"`
		FeedbackPercentage search.FlexString `json:"feedbackPercentage"`
	} `json:"seller,omitempty"`
	ItemLocation *struct {
		Country    string `json:"country"`
		PostalCode string `json:"postalCode,omitempty"`
	} `json:"itemLocation,omitempty"`
	BuyingOptions []string `json:"buyingOptions,omitempty"`
}
