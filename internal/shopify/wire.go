package shopify

import "time"

// Connection is the remote API's paged edge/node representation of a list.
// It exists only on the wire: nothing past the normalization boundary ever
// sees one.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

// Edge wraps a single node in a Connection.
type Edge[T any] struct {
	Node T `json:"node"`
}

// Flatten produces the ordered node sequence of a connection, discarding the
// pagination edges. It is order-preserving and idempotent in the sense that
// a connection built from a flat sequence flattens back to that sequence.
func Flatten[T any](conn Connection[T]) []T {
	nodes := make([]T, len(conn.Edges))
	for i, edge := range conn.Edges {
		nodes[i] = edge.Node
	}
	return nodes
}

type wireMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type wireSEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type wireImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type wireSelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type wireProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type wireVariant struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	AvailableForSale bool                 `json:"availableForSale"`
	SelectedOptions  []wireSelectedOption `json:"selectedOptions"`
	Price            wireMoney            `json:"price"`
}

type wireProduct struct {
	ID               string                  `json:"id"`
	Handle           string                  `json:"handle"`
	AvailableForSale bool                    `json:"availableForSale"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	DescriptionHTML  string                  `json:"descriptionHtml"`
	Options          []wireProductOption     `json:"options"`
	PriceRange       wirePriceRange          `json:"priceRange"`
	Variants         Connection[wireVariant] `json:"variants"`
	Images           Connection[wireImage]   `json:"images"`
	FeaturedImage    wireImage               `json:"featuredImage"`
	SEO              wireSEO                 `json:"seo"`
	Tags             []string                `json:"tags"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

type wirePriceRange struct {
	MinVariantPrice wireMoney `json:"minVariantPrice"`
	MaxVariantPrice wireMoney `json:"maxVariantPrice"`
}

type wireCollection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         wireSEO   `json:"seo"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type wirePage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Body        string    `json:"body"`
	BodySummary string    `json:"bodySummary"`
	SEO         wireSEO   `json:"seo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type wireMenuItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type wireCartProduct struct {
	ID            string    `json:"id"`
	Handle        string    `json:"handle"`
	Title         string    `json:"title"`
	FeaturedImage wireImage `json:"featuredImage"`
}

type wireMerchandise struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	SelectedOptions []wireSelectedOption `json:"selectedOptions"`
	Product         wireCartProduct      `json:"product"`
}

type wireCartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount wireMoney `json:"totalAmount"`
	} `json:"cost"`
	Merchandise wireMerchandise `json:"merchandise"`
}

type wireCartCost struct {
	SubtotalAmount wireMoney `json:"subtotalAmount"`
	TotalAmount    wireMoney `json:"totalAmount"`
	// TotalTaxAmount may be null: the remote service omits tax after the
	// checkout handoff.
	TotalTaxAmount *wireMoney `json:"totalTaxAmount"`
}

type wireCart struct {
	ID            string                   `json:"id"`
	CheckoutURL   string                   `json:"checkoutUrl"`
	Cost          wireCartCost             `json:"cost"`
	TotalQuantity int                      `json:"totalQuantity"`
	Lines         Connection[wireCartLine] `json:"lines"`
}

// Response payloads, one per operation.

type productsPayload struct {
	Products Connection[wireProduct] `json:"products"`
}

type productPayload struct {
	Product *wireProduct `json:"product"`
}

type recommendationsPayload struct {
	ProductRecommendations []wireProduct `json:"productRecommendations"`
}

type collectionsPayload struct {
	Collections Connection[wireCollection] `json:"collections"`
}

type collectionProductsPayload struct {
	Collection *struct {
		Products Connection[wireProduct] `json:"products"`
	} `json:"collection"`
}

type pagesPayload struct {
	Pages Connection[wirePage] `json:"pages"`
}

type pagePayload struct {
	PageByHandle *wirePage `json:"pageByHandle"`
}

type menuPayload struct {
	Menu *struct {
		Items []wireMenuItem `json:"items"`
	} `json:"menu"`
}

type cartPayload struct {
	Cart *wireCart `json:"cart"`
}

type cartCreatePayload struct {
	CartCreate struct {
		Cart wireCart `json:"cart"`
	} `json:"cartCreate"`
}

type cartLinesAddPayload struct {
	CartLinesAdd struct {
		Cart wireCart `json:"cart"`
	} `json:"cartLinesAdd"`
}

type cartLinesRemovePayload struct {
	CartLinesRemove struct {
		Cart wireCart `json:"cart"`
	} `json:"cartLinesRemove"`
}

type cartLinesUpdatePayload struct {
	CartLinesUpdate struct {
		Cart wireCart `json:"cart"`
	} `json:"cartLinesUpdate"`
}
