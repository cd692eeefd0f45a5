package domain

// City identifies one storefront. URL is the host fragment the feed links
// are built from ("spb" or "shop.example.com").
type City struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Category is one entry of the feed's categories block.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Attribute is a per-category product characteristic definition.
// PriorityFilter != 0 marks it for inclusion in offer params.
type Attribute struct {
	CategoryID     int    `json:"category_id"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	PriorityFilter int    `json:"priority_filter"`
}

// Product is the flat row the paginated catalog query returns: the product
// itself joined with its category, section and image metadata.
type Product struct {
	ID                int            `json:"id"`
	Name              string         `json:"name"`
	Price             float64        `json:"price"`
	Description       string         `json:"description"`
	Attributes        map[string]any `json:"attributes"`
	CategoryID        int            `json:"category_id"`
	CategoryName      string         `json:"category_name"`
	CategorySluggable string         `json:"category_sluggable"`
	SectionSluggable  string         `json:"section_sluggable"`
	Image             string         `json:"image"`
}
