package extraction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/newtown/billsplitter/internal/models"
)

var pricePattern = regexp.MustCompile(`£?\s*(\d+\.?\d*)`)

// ParseItems extracts line items from a model response. It locates the JSON
// array inside the text (code fences and surrounding prose tolerated) and
// falls back to scraping name/price pairs line by line when the JSON is
// mangled. Unparseable input yields an empty list.
func ParseItems(text string) []models.ExtractedItem {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		var raw []struct {
			Name  string          `json:"name"`
			Price decimal.Decimal `json:"price"`
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err == nil {
			items := make([]models.ExtractedItem, 0, len(raw))
			for _, r := range raw {
				if strings.TrimSpace(r.Name) == "" {
					continue
				}
				items = append(items, models.ExtractedItem{
					Name:  strings.TrimSpace(r.Name),
					Price: r.Price,
					Type:  typeForPrice(r.Price),
				})
			}
			return items
		}
	}
	return parseFallback(text)
}

// parseFallback scrapes "name price" lines when the JSON array is broken.
func parseFallback(text string) []models.ExtractedItem {
	var items []models.ExtractedItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := pricePattern.FindString(line)
		if match == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(match), "£")))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(strings.Replace(line, match, "", 1))
		if name == "" {
			continue
		}
		items = append(items, models.ExtractedItem{
			Name:  name,
			Price: price,
			Type:  typeForPrice(price),
		})
	}
	return items
}

// typeForPrice classifies negative-priced lines as deals, per the extraction
// contract's item|deal split.
func typeForPrice(p decimal.Decimal) models.ItemType {
	if p.IsNegative() {
		return models.ItemTypeDeal
	}
	return models.ItemTypeItem
}
