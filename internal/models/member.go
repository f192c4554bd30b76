package models

// MemberColors is the display palette for members, assigned round-robin by
// insertion index. Purely presentational; calculations never look at color.
var MemberColors = []string{
	"#E57373", // Red
	"#64B5F6", // Blue
	"#81C784", // Green
	"#FFB74D", // Orange
	"#BA68C8", // Purple
	"#FF8A65", // Deep Orange
	"#A1887F", // Brown
	"#90A4AE", // Blue Grey
}

// ColorForIndex returns the palette color for the member at the given
// insertion index.
func ColorForIndex(i int) string {
	return MemberColors[i%len(MemberColors)]
}

// Member represents a participant in the bill split.
// The JSON field names form the stable schema persisted by the settings store.
type Member struct {
	// ID is the unique identifier, sourced from the creation timestamp
	// in milliseconds. Immutable once created.
	ID int64 `json:"id"`

	// Name is the display name. Never empty.
	Name string `json:"name"`

	// Color is the display color (hex), assigned at creation.
	Color string `json:"color"`

	// Emoji is an optional display glyph.
	Emoji string `json:"emoji,omitempty"`

	// CreatedAt is the Unix timestamp (milliseconds) when the member was created.
	CreatedAt int64 `json:"createdAt"`
}
