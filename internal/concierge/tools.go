package concierge

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/Jpduker/Edible-AI-Agent/internal/catalog"
)

// Tool names and result caps.
const (
	SearchProductsTool      = "search_products"
	FindSimilarProductsTool = "find_similar_products"

	maxProductsPerSearch     = 15
	maxProductsPerSimilarity = 10
)

const (
	searchProductsDescription = "Search the Edible Arrangements product catalog by keyword. " +
		"Returns products with names, prices, descriptions, images, and direct product page URLs. " +
		"Use this tool whenever you need to find or recommend products; never recommend products without searching first. " +
		"You can call this tool multiple times with different keywords to get diverse results. " +
		"IMPORTANT: when the user specifies a budget, you MUST set maxPrice. When the user asks for premium or upscale options, you MUST set minPrice. " +
		"DELIVERY: when the user asks for delivery, shipping, or same-day options, you MUST set deliveryFilter to \"delivery\" to exclude in-store pickup only items. " +
		"MULTI-CATEGORY: when the user requests multiple distinct product types, make SEPARATE tool calls for each category."

	findSimilarDescription = "Find products similar to one the user already likes. " +
		"Use this when a user likes a specific product but wants alternatives, or asks for \"something similar\" or \"more like this\". " +
		"Extracts key attributes and searches for comparable products. " +
		"IMPORTANT: when the user asks for premium or more upscale versions, set minPrice to the original product's price. " +
		"When the user says \"under $X\" or specifies a budget, set maxPrice to X."
)

// Searcher is the catalog dependency of the tool handlers.
type Searcher interface {
	Search(ctx context.Context, keyword, zip string) []catalog.Product
}

type searchProductsInput struct {
	Keyword        string   `json:"keyword" jsonschema_description:"The search keyword or short phrase to find products. Examples: \"birthday chocolate\", \"thank you fruit\", \"valentines strawberries\"."`
	MaxPrice       *float64 `json:"maxPrice,omitempty" jsonschema_description:"STRICT maximum price filter. If the user says \"under $50\", set this to 50. Products above this price will be EXCLUDED from results."`
	MinPrice       *float64 `json:"minPrice,omitempty" jsonschema_description:"STRICT minimum price filter. If the user asks for premium options relative to a product priced at $X, set this to X. Products below this price will be EXCLUDED."`
	ZipCode        string   `json:"zipCode,omitempty" jsonschema_description:"Recipient ZIP code for delivery availability check."`
	DeliveryFilter string   `json:"deliveryFilter,omitempty" jsonschema:"enum=delivery,enum=pickup,enum=any" jsonschema_description:"Filter products by delivery type. Set to \"delivery\" to exclude in-store pickup only items, \"pickup\" for in-store pickup only. Defaults to \"any\"."`
}

type findSimilarInput struct {
	ProductName    string   `json:"productName" jsonschema_description:"The name of the product the user likes, e.g. \"Chocolate Dipped Strawberries\"."`
	Attributes     string   `json:"attributes" jsonschema_description:"Key attributes extracted from the product: category, flavor profile, price range, occasion type. E.g. \"chocolate, fruit, dipped, romantic, $30-50\"."`
	MaxPrice       *float64 `json:"maxPrice,omitempty" jsonschema_description:"STRICT maximum price. If the user wants similar but \"under $50\", set to 50. Products above this are EXCLUDED."`
	MinPrice       *float64 `json:"minPrice,omitempty" jsonschema_description:"STRICT minimum price. If the user wants a premium version of a $50 product, set to 50. Products below this are EXCLUDED."`
	ZipCode        string   `json:"zipCode,omitempty" jsonschema_description:"Recipient ZIP code for delivery availability check."`
	DeliveryFilter string   `json:"deliveryFilter,omitempty" jsonschema:"enum=delivery,enum=pickup,enum=any" jsonschema_description:"Filter by delivery type. \"delivery\" excludes in-store pickup only items, \"pickup\" keeps in-store only. Defaults to \"any\"."`
}

// appliedFilters echoes the strict filters back to the model so it can
// explain empty results.
type appliedFilters struct {
	MaxPrice       *float64 `json:"maxPrice,omitempty"`
	MinPrice       *float64 `json:"minPrice,omitempty"`
	DeliveryFilter string   `json:"deliveryFilter,omitempty"`
}

// toolProduct is the product view handed back to the model. It mirrors
// catalog.Product minus the thumbnail, which only collaborator UI needs.
type toolProduct struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	PriceFormatted    string  `json:"priceFormatted"`
	Description       string  `json:"description,omitempty"`
	ProductURL        string  `json:"productUrl"`
	ImageURL          string  `json:"imageUrl"`
	Category          string  `json:"category,omitempty"`
	Occasion          string  `json:"occasion,omitempty"`
	IsOneHourDelivery bool    `json:"isOneHourDelivery"`
	Promo             string  `json:"promo,omitempty"`
	ProductImageTag   string  `json:"productImageTag,omitempty"`
	AllergyInfo       string  `json:"allergyInfo,omitempty"`
	Ingredients       string  `json:"ingredients,omitempty"`
	SizeCount         int     `json:"sizeCount,omitempty"`
}

// toolResult is the structured payload fed back into the reasoning loop.
// Failures are data, never errors: a broken tool call must not stall the
// loop, and the model needs the message to explain the situation.
type toolResult struct {
	Success            bool           `json:"success"`
	Message            string         `json:"message,omitempty"`
	Keyword            string         `json:"keyword,omitempty"`
	OriginalProduct    string         `json:"originalProduct,omitempty"`
	SearchedAttributes string         `json:"searchedAttributes,omitempty"`
	ResultCount        int            `json:"resultCount"`
	Products           []toolProduct  `json:"products"`
	AppliedFilters     appliedFilters `json:"appliedFilters"`
}

// defineTools registers both catalog tools with Genkit and returns their
// refs for ai.WithTools.
func (c *Concierge) defineTools(g *genkit.Genkit) []ai.ToolRef {
	search := genkit.DefineTool(g, SearchProductsTool, searchProductsDescription,
		func(ctx *ai.ToolContext, input searchProductsInput) (toolResult, error) {
			return c.searchProducts(ctx.Context, input), nil
		},
	)

	similar := genkit.DefineTool(g, FindSimilarProductsTool, findSimilarDescription,
		func(ctx *ai.ToolContext, input findSimilarInput) (toolResult, error) {
			return c.findSimilarProducts(ctx.Context, input), nil
		},
	)

	return []ai.ToolRef{search, similar}
}

func (c *Concierge) searchProducts(ctx context.Context, input searchProductsInput) toolResult {
	c.logger.Info("tool_call",
		"tool", SearchProductsTool,
		"keyword", input.Keyword,
		"maxPrice", input.MaxPrice,
		"minPrice", input.MinPrice,
		"zipCode", input.ZipCode,
		"deliveryFilter", input.DeliveryFilter)

	products := c.catalog.Search(ctx, input.Keyword, input.ZipCode)
	products = filterByPrice(products, input.MinPrice, input.MaxPrice, priceBelowMax)
	products = filterByDelivery(products, input.DeliveryFilter)

	filters := appliedFilters{
		MaxPrice:       input.MaxPrice,
		MinPrice:       input.MinPrice,
		DeliveryFilter: input.DeliveryFilter,
	}

	if len(products) == 0 {
		return toolResult{
			Success: false,
			Message: fmt.Sprintf("No products found for %q%s. Try a different search term or adjust the filters.",
				input.Keyword, filterSummary(filters)),
			Keyword:        input.Keyword,
			Products:       []toolProduct{},
			AppliedFilters: filters,
		}
	}

	views := toToolProducts(products, maxProductsPerSearch)
	c.logger.Info("tool_result",
		"tool", SearchProductsTool,
		"keyword", input.Keyword,
		"resultCount", len(views),
		"maxPrice", input.MaxPrice,
		"minPrice", input.MinPrice,
		"deliveryFilter", input.DeliveryFilter)

	return toolResult{
		Success:        true,
		Keyword:        input.Keyword,
		ResultCount:    len(products),
		Products:       views,
		AppliedFilters: filters,
	}
}

func (c *Concierge) findSimilarProducts(ctx context.Context, input findSimilarInput) toolResult {
	c.logger.Info("tool_call",
		"tool", FindSimilarProductsTool,
		"productName", input.ProductName,
		"attributes", input.Attributes,
		"maxPrice", input.MaxPrice,
		"minPrice", input.MinPrice,
		"zipCode", input.ZipCode,
		"deliveryFilter", input.DeliveryFilter)

	// Two independent keyword sets, searched concurrently: up to three
	// non-price attribute tokens, and the first two words of the
	// reference product's name.
	attrKeyword := attributeKeyword(input.Attributes)
	nameKeyword := firstWords(input.ProductName, 2)

	byAttrCh := make(chan []catalog.Product, 1)
	go func() {
		byAttrCh <- c.catalog.Search(ctx, attrKeyword, input.ZipCode)
	}()
	byName := c.catalog.Search(ctx, nameKeyword, input.ZipCode)
	byAttr := <-byAttrCh

	// Merge, dedup by case-insensitive name, exclude the reference
	// product. First occurrence wins.
	seen := make(map[string]bool)
	refName := strings.ToLower(input.ProductName)
	var merged []catalog.Product
	for _, p := range append(byAttr, byName...) {
		name := strings.ToLower(p.Name)
		if seen[name] || name == refName {
			continue
		}
		seen[name] = true
		merged = append(merged, p)
	}

	merged = filterByPrice(merged, input.MinPrice, input.MaxPrice, priceAtOrBelowMax)
	merged = filterByDelivery(merged, input.DeliveryFilter)

	filters := appliedFilters{
		MaxPrice:       input.MaxPrice,
		MinPrice:       input.MinPrice,
		DeliveryFilter: input.DeliveryFilter,
	}

	if len(merged) == 0 {
		return toolResult{
			Success: false,
			Message: fmt.Sprintf("I couldn't find similar products to %q%s. Let me try a different search approach.",
				input.ProductName, filterSummary(filters)),
			OriginalProduct: input.ProductName,
			Products:        []toolProduct{},
			AppliedFilters:  filters,
		}
	}

	views := toToolProducts(merged, maxProductsPerSimilarity)
	c.logger.Info("tool_result",
		"tool", FindSimilarProductsTool,
		"productName", input.ProductName,
		"resultCount", len(views),
		"maxPrice", input.MaxPrice,
		"minPrice", input.MinPrice,
		"deliveryFilter", input.DeliveryFilter)

	return toolResult{
		Success:            true,
		OriginalProduct:    input.ProductName,
		SearchedAttributes: input.Attributes,
		ResultCount:        len(merged),
		Products:           views,
		AppliedFilters:     filters,
	}
}

// Maximum-price comparison modes. Keyword search excludes products at the
// limit; similarity search keeps them.
func priceBelowMax(price, max float64) bool     { return price < max }
func priceAtOrBelowMax(price, max float64) bool { return price <= max }

func filterByPrice(products []catalog.Product, min, max *float64, withinMax func(price, max float64) bool) []catalog.Product {
	if min == nil && max == nil {
		return products
	}
	kept := products[:0:0]
	for _, p := range products {
		if max != nil && !withinMax(p.Price, *max) {
			continue
		}
		if min != nil && p.Price < *min {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// filterByDelivery applies the pickup-only marker rules. The upstream
// catalog encodes fulfillment in a free-text image tag such as
// "In-Store Pickup Only".
func filterByDelivery(products []catalog.Product, mode string) []catalog.Product {
	switch mode {
	case "delivery":
		kept := products[:0:0]
		for _, p := range products {
			tag := strings.ToLower(p.ProductImageTag)
			if strings.Contains(tag, "in-store") || strings.Contains(tag, "pickup only") {
				continue
			}
			kept = append(kept, p)
		}
		return kept
	case "pickup":
		kept := products[:0:0]
		for _, p := range products {
			tag := strings.ToLower(p.ProductImageTag)
			if strings.Contains(tag, "in-store") || strings.Contains(tag, "pickup") {
				kept = append(kept, p)
			}
		}
		return kept
	default:
		return products
	}
}

// attributeKeyword joins up to three non-price tokens from a comma-separated
// attribute string. Price tokens like "$30-50" would pollute the keyword.
func attributeKeyword(attributes string) string {
	var tokens []string
	for _, a := range strings.Split(attributes, ",") {
		a = strings.TrimSpace(a)
		if a == "" || strings.HasPrefix(a, "$") {
			continue
		}
		tokens = append(tokens, a)
		if len(tokens) == 3 {
			break
		}
	}
	return strings.Join(tokens, " ")
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func filterSummary(f appliedFilters) string {
	var b strings.Builder
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, " under $%g", *f.MaxPrice)
	} else if f.MinPrice != nil {
		fmt.Fprintf(&b, " above $%g", *f.MinPrice)
	}
	switch f.DeliveryFilter {
	case "delivery":
		b.WriteString(" with delivery available")
	case "pickup":
		b.WriteString(" for in-store pickup")
	}
	return b.String()
}

func toToolProducts(products []catalog.Product, max int) []toolProduct {
	if len(products) > max {
		products = products[:max]
	}
	views := make([]toolProduct, len(products))
	for i, p := range products {
		views[i] = toolProduct{
			ID:                p.ID,
			Name:              p.Name,
			Price:             p.Price,
			PriceFormatted:    p.PriceFormatted,
			Description:       p.Description,
			ProductURL:        p.ProductURL,
			ImageURL:          p.ImageURL,
			Category:          p.Category,
			Occasion:          p.Occasion,
			IsOneHourDelivery: p.IsOneHourDelivery,
			Promo:             p.Promo,
			ProductImageTag:   p.ProductImageTag,
			AllergyInfo:       p.AllergyInfo,
			Ingredients:       p.Ingredients,
			SizeCount:         p.SizeCount,
		}
	}
	return views
}
