package shopify

import (
	"strings"

	"github.com/MohannadDev/protoshop-dev/internal/domain/cart"
	"github.com/MohannadDev/protoshop-dev/internal/domain/catalog"
	"github.com/MohannadDev/protoshop-dev/internal/domain/money"
)

// The normalizer converts paged, nested wire payloads into flat domain
// entities. All reshape functions are total over well-formed input: missing
// required data yields an absent result, never a partial entity.

func toMoney(m wireMoney) money.Money {
	return money.FromString(m.Amount, m.CurrencyCode)
}

func toSEO(s wireSEO) catalog.SEO {
	return catalog.SEO{Title: s.Title, Description: s.Description}
}

func toImage(i wireImage) catalog.Image {
	return catalog.Image{URL: i.URL, AltText: i.AltText, Width: i.Width, Height: i.Height}
}

func toSelectedOptions(opts []wireSelectedOption) []catalog.SelectedOption {
	out := make([]catalog.SelectedOption, len(opts))
	for i, o := range opts {
		out[i] = catalog.SelectedOption{Name: o.Name, Value: o.Value}
	}
	return out
}

// imageFileName extracts the file name (without directory or extension) from
// an image URL, for use in backfilled alt text.
func imageFileName(url string) string {
	name := url
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}

// reshapeImages flattens an image connection and backfills any missing alt
// text as "<product title> - <file name>".
func reshapeImages(conn Connection[wireImage], productTitle string) []catalog.Image {
	flat := Flatten(conn)
	images := make([]catalog.Image, len(flat))
	for i, img := range flat {
		out := toImage(img)
		if out.AltText == "" {
			out.AltText = productTitle + " - " + imageFileName(img.URL)
		}
		images[i] = out
	}
	return images
}

func reshapeVariants(conn Connection[wireVariant]) []catalog.ProductVariant {
	flat := Flatten(conn)
	variants := make([]catalog.ProductVariant, len(flat))
	for i, v := range flat {
		variants[i] = catalog.ProductVariant{
			ID:               v.ID,
			Title:            v.Title,
			AvailableForSale: v.AvailableForSale,
			SelectedOptions:  toSelectedOptions(v.SelectedOptions),
			Price:            toMoney(v.Price),
		}
	}
	return variants
}

// reshapeProduct flattens a wire product into a catalog entity. It returns
// nil when the raw product is absent, or when filterHidden is set and the
// product carries the hidden marker tag.
func reshapeProduct(raw *wireProduct, filterHidden bool) *catalog.Product {
	if raw == nil {
		return nil
	}

	p := catalog.Product{
		ID:               raw.ID,
		Handle:           raw.Handle,
		AvailableForSale: raw.AvailableForSale,
		Title:            raw.Title,
		Description:      raw.Description,
		DescriptionHTML:  raw.DescriptionHTML,
		PriceRange: catalog.PriceRange{
			MinVariantPrice: toMoney(raw.PriceRange.MinVariantPrice),
			MaxVariantPrice: toMoney(raw.PriceRange.MaxVariantPrice),
		},
		Variants:      reshapeVariants(raw.Variants),
		Images:        reshapeImages(raw.Images, raw.Title),
		FeaturedImage: toImage(raw.FeaturedImage),
		SEO:           toSEO(raw.SEO),
		Tags:          raw.Tags,
		UpdatedAt:     raw.UpdatedAt,
	}
	p.Options = make([]catalog.ProductOption, len(raw.Options))
	for i, o := range raw.Options {
		p.Options[i] = catalog.ProductOption{ID: o.ID, Name: o.Name, Values: o.Values}
	}

	if filterHidden && p.IsHidden() {
		return nil
	}
	return &p
}

// reshapeProducts reshapes a flat wire product list, dropping hidden and
// absent entries.
func reshapeProducts(raw []wireProduct) []catalog.Product {
	products := make([]catalog.Product, 0, len(raw))
	for i := range raw {
		if p := reshapeProduct(&raw[i], true); p != nil {
			products = append(products, *p)
		}
	}
	return products
}

// reshapeCollection derives the browse path from the collection handle.
// Absent input yields an absent result.
func reshapeCollection(raw *wireCollection) *catalog.Collection {
	if raw == nil {
		return nil
	}
	return &catalog.Collection{
		Handle:      raw.Handle,
		Title:       raw.Title,
		Description: raw.Description,
		SEO:         toSEO(raw.SEO),
		Path:        "/search/" + raw.Handle,
		UpdatedAt:   raw.UpdatedAt,
	}
}

func reshapePage(raw *wirePage) *catalog.Page {
	if raw == nil {
		return nil
	}
	return &catalog.Page{
		ID:          raw.ID,
		Title:       raw.Title,
		Handle:      raw.Handle,
		Body:        raw.Body,
		BodySummary: raw.BodySummary,
		SEO:         toSEO(raw.SEO),
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
}

// reshapeCart flattens the cart lines. When the remote omits the tax amount
// (it does after the checkout handoff) a zero in the total's currency is
// substituted so total display never dereferences an absent value.
func reshapeCart(raw wireCart) cart.Cart {
	total := toMoney(raw.Cost.TotalAmount)

	tax := money.Zero(total.CurrencyCode)
	if raw.Cost.TotalTaxAmount != nil {
		tax = toMoney(*raw.Cost.TotalTaxAmount)
	}

	flat := Flatten(raw.Lines)
	lines := make([]cart.Line, len(flat))
	for i, l := range flat {
		lines[i] = cart.Line{
			ID:       l.ID,
			Quantity: l.Quantity,
			Cost:     cart.LineCost{TotalAmount: toMoney(l.Cost.TotalAmount)},
			Merchandise: cart.Merchandise{
				ID:              l.Merchandise.ID,
				Title:           l.Merchandise.Title,
				SelectedOptions: toSelectedOptions(l.Merchandise.SelectedOptions),
				Product: cart.ProductSummary{
					ID:            l.Merchandise.Product.ID,
					Handle:        l.Merchandise.Product.Handle,
					Title:         l.Merchandise.Product.Title,
					FeaturedImage: toImage(l.Merchandise.Product.FeaturedImage),
				},
			},
		}
	}

	return cart.Cart{
		ID:            raw.ID,
		CheckoutURL:   raw.CheckoutURL,
		TotalQuantity: raw.TotalQuantity,
		Lines:         lines,
		Cost: cart.Cost{
			SubtotalAmount: toMoney(raw.Cost.SubtotalAmount),
			TotalAmount:    total,
			TotalTaxAmount: tax,
		},
	}
}
