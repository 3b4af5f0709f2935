package catalog

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
)

// Product is the canonical catalog item produced by normalization.
// The identifier is always a non-empty string; downstream selection and
// deduplication rely on it being stable for the same logical record.
type Product struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	PriceFormatted    string  `json:"priceFormatted"`
	ImageURL          string  `json:"imageUrl"`
	ThumbnailURL      string  `json:"thumbnailUrl"`
	ProductURL        string  `json:"productUrl"`
	Description       string  `json:"description"`
	Category          string  `json:"category,omitempty"`
	Occasion          string  `json:"occasion,omitempty"`
	IsOneHourDelivery bool    `json:"isOneHourDelivery"`
	Promo             string  `json:"promo,omitempty"`
	ProductImageTag   string  `json:"productImageTag,omitempty"`
	AllergyInfo       string  `json:"allergyInfo,omitempty"`
	Ingredients       string  `json:"ingredients,omitempty"`
	SizeCount         int     `json:"sizeCount,omitempty"`
}

// SearchRecord is the raw upstream search result. The upstream schema is
// heterogeneous: price may appear under minPrice, maxPrice or price, and
// several fields carry upstream misspellings that must be preserved on the
// wire ("allergyinformation", "ingrediantNames").
type SearchRecord struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	MinPrice          float64 `json:"minPrice"`
	MaxPrice          float64 `json:"maxPrice"`
	Price             float64 `json:"price"`
	Image             string  `json:"image"`
	Thumbnail         string  `json:"thumbnail"`
	URL               string  `json:"url"`
	Category          string  `json:"category"`
	Occasion          string  `json:"occasion"`
	AllergyInfo       string  `json:"allergyinformation"`
	Ingredients       string  `json:"ingrediantNames"`
	Number            string  `json:"number"`
	LiveSku           *bool   `json:"liveSku"`
	IsOneHourDelivery bool    `json:"isOneHourDelivery"`
	ProductImageTag   string  `json:"productImageTag"`
	Promo             string  `json:"promo"`
	SizeCount         int     `json:"sizeCount"`
}

// Orderable reports whether the record is currently orderable.
// Only an explicit liveSku=false marks a record as not orderable; absence of
// the field means orderable.
func (r SearchRecord) Orderable() bool {
	return r.LiveSku == nil || *r.LiveSku
}

// Normalize converts a raw upstream record into a canonical Product.
// It is a pure function: the same record always yields the same Product,
// including the fallback identifier.
//
// Price precedence is minPrice, then maxPrice, then price, defaulting to zero,
// rounded to cents. Identifier precedence is id, then number, then a
// deterministic hash of name, price and URL.
func Normalize(baseURL string, r SearchRecord) Product {
	productURL := baseURL
	if r.URL != "" {
		productURL = baseURL + "/fruit-gifts/" + r.URL
	}

	imageURL := r.Image
	if imageURL == "" {
		imageURL = r.Thumbnail
	}
	thumbnailURL := r.Thumbnail
	if thumbnailURL == "" {
		thumbnailURL = imageURL
	}

	price := r.MinPrice
	if price == 0 {
		price = r.MaxPrice
	}
	if price == 0 {
		price = r.Price
	}
	price = math.Round(price*100) / 100

	name := r.Name
	if name == "" {
		name = "Edible Arrangement"
	}

	id := r.ID
	if id == "" {
		id = r.Number
	}
	if id == "" {
		id = fallbackID(name, price, productURL)
	}

	return Product{
		ID:                id,
		Name:              name,
		Price:             price,
		PriceFormatted:    fmt.Sprintf("$%.2f", price),
		ImageURL:          imageURL,
		ThumbnailURL:      thumbnailURL,
		ProductURL:        productURL,
		Description:       r.Description,
		Category:          r.Category,
		Occasion:          r.Occasion,
		IsOneHourDelivery: r.IsOneHourDelivery,
		Promo:             r.Promo,
		ProductImageTag:   r.ProductImageTag,
		AllergyInfo:       r.AllergyInfo,
		Ingredients:       r.Ingredients,
		SizeCount:         r.SizeCount,
	}
}

// fallbackID derives a stable identifier for records the upstream ships
// without one. A hash of name, price and URL keeps deduplication and
// selection-by-ID working across repeated normalizations of the same record.
func fallbackID(name string, price float64, url string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(strconv.FormatFloat(price, 'f', 2, 64)))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(url))
	return "gen-" + strconv.FormatUint(h.Sum64(), 16)
}
