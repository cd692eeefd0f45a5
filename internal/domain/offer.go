package domain

// Param is one resolved product characteristic inside an offer.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Offer is one serialized product entry of the feed.
type Offer struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	CurrencyID  string  `json:"currency_id"`
	CategoryID  int     `json:"category_id"`
	URL         string  `json:"url"`
	Picture     string  `json:"picture"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}
