package core

// Category is one entry of the fixed, compiled-in category catalog. Entries
// are used for lookup and rendering only and are never persisted.
type Category struct {
	Key   string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// FallbackCategory is the key everything unknown falls back to.
const FallbackCategory = "other"

// Categories is the closed catalog, in display order. Exactly one entry is
// the designated fallback.
var Categories = []Category{
	{Key: "food", Label: "Food & Dining", Color: "#FF6B6B", Icon: "🍽️"},
	{Key: "transport", Label: "Transportation", Color: "#4ECDC4", Icon: "🚗"},
	{Key: "shopping", Label: "Shopping", Color: "#45B7D1", Icon: "🛍️"},
	{Key: "entertainment", Label: "Entertainment", Color: "#96CEB4", Icon: "🎬"},
	{Key: "health", Label: "Healthcare", Color: "#FFEAA7", Icon: "🏥"},
	{Key: "education", Label: "Education", Color: "#DDA0DD", Icon: "📚"},
	{Key: "utilities", Label: "Utilities", Color: "#FFB347", Icon: "⚡"},
	{Key: "housing", Label: "Housing", Color: "#87CEEB", Icon: "🏠"},
	{Key: "income", Label: "Income", Color: "#98FB98", Icon: "💰"},
	{Key: "other", Label: "Other", Color: "#D3D3D3", Icon: "📝"},
}

// LookupCategory returns the catalog entry for key, or the fallback entry
// when the key is unknown. It never fails.
func LookupCategory(key string) Category {
	for _, c := range Categories {
		if c.Key == key {
			return c
		}
	}
	return LookupCategory(FallbackCategory)
}

// KnownCategory reports whether key is part of the catalog.
func KnownCategory(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}
