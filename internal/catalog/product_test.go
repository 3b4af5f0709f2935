package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testBaseURL = "https://catalog.example.com"

func TestNormalize_PricePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record SearchRecord
		want   float64
	}{
		{
			name:   "minPrice wins over all",
			record: SearchRecord{MinPrice: 29.99, MaxPrice: 59.99, Price: 44.99},
			want:   29.99,
		},
		{
			name:   "maxPrice when minPrice missing",
			record: SearchRecord{MaxPrice: 59.99, Price: 44.99},
			want:   59.99,
		},
		{
			name:   "flat price when both missing",
			record: SearchRecord{Price: 44.99},
			want:   44.99,
		},
		{
			name:   "defaults to zero",
			record: SearchRecord{},
			want:   0,
		},
		{
			name:   "rounded to cents",
			record: SearchRecord{MinPrice: 19.999},
			want:   20.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Normalize(testBaseURL, tt.record)
			assert.Equal(t, tt.want, p.Price)
		})
	}
}

func TestNormalize_PriceFormatted(t *testing.T) {
	t.Parallel()

	p := Normalize(testBaseURL, SearchRecord{MinPrice: 49.9})
	assert.Equal(t, "$49.90", p.PriceFormatted)
}

func TestNormalize_IdentifierPrecedence(t *testing.T) {
	t.Parallel()

	t.Run("provided id wins", func(t *testing.T) {
		t.Parallel()
		p := Normalize(testBaseURL, SearchRecord{ID: "sku-1", Number: "42"})
		assert.Equal(t, "sku-1", p.ID)
	})

	t.Run("number when id missing", func(t *testing.T) {
		t.Parallel()
		p := Normalize(testBaseURL, SearchRecord{Number: "42"})
		assert.Equal(t, "42", p.ID)
	})

	t.Run("deterministic fallback when both missing", func(t *testing.T) {
		t.Parallel()
		record := SearchRecord{Name: "Berry Box", MinPrice: 39.99, URL: "berry-box"}
		first := Normalize(testBaseURL, record)
		second := Normalize(testBaseURL, record)
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, first.ID, second.ID, "fallback ID must be stable for the same record")
	})

	t.Run("fallback differs for different records", func(t *testing.T) {
		t.Parallel()
		a := Normalize(testBaseURL, SearchRecord{Name: "Berry Box", MinPrice: 39.99})
		b := Normalize(testBaseURL, SearchRecord{Name: "Berry Crate", MinPrice: 39.99})
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	record := SearchRecord{
		ID:       "sku-7",
		Name:     "Chocolate Dipped Strawberries",
		MinPrice: 54.99,
		Image:    "https://img.example.com/full.jpg",
		URL:      "chocolate-dipped-strawberries",
	}

	first := Normalize(testBaseURL, record)
	second := Normalize(testBaseURL, record)
	assert.Equal(t, first, second)
}

func TestNormalize_URLAndImages(t *testing.T) {
	t.Parallel()

	t.Run("product URL built from slug", func(t *testing.T) {
		t.Parallel()
		p := Normalize(testBaseURL, SearchRecord{URL: "berry-box"})
		assert.Equal(t, testBaseURL+"/fruit-gifts/berry-box", p.ProductURL)
	})

	t.Run("missing slug falls back to base URL", func(t *testing.T) {
		t.Parallel()
		p := Normalize(testBaseURL, SearchRecord{})
		assert.Equal(t, testBaseURL, p.ProductURL)
	})

	t.Run("image falls back to thumbnail", func(t *testing.T) {
		t.Parallel()
		p := Normalize(testBaseURL, SearchRecord{Thumbnail: "thumb.jpg"})
		assert.Equal(t, "thumb.jpg", p.ImageURL)
		assert.Equal(t, "thumb.jpg", p.ThumbnailURL)
	})

	t.Run("thumbnail falls back to image", func(t *testing.T) {
		t.Parallel()
		p := Normalize(testBaseURL, SearchRecord{Image: "full.jpg"})
		assert.Equal(t, "full.jpg", p.ThumbnailURL)
	})
}

func TestOrderable(t *testing.T) {
	t.Parallel()

	live := true
	dead := false

	assert.True(t, SearchRecord{}.Orderable(), "absent liveSku means orderable")
	assert.True(t, SearchRecord{LiveSku: &live}.Orderable())
	assert.False(t, SearchRecord{LiveSku: &dead}.Orderable())
}
