package shared

// Colour is a named hex colour used for label badges.
type Colour struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// DefaultColourCode is used when the palette lookup fails.
const DefaultColourCode = "#6B7280"

// LabelPalette is the fixed palette cycled through when labels are created in
// bulk. Assignment is by insertion order, so identical structures always get
// identical colours.
var LabelPalette = []Colour{
	{Name: "red", Code: "#EF4444"},
	{Name: "orange", Code: "#F97316"},
	{Name: "amber", Code: "#F59E0B"},
	{Name: "green", Code: "#22C55E"},
	{Name: "teal", Code: "#14B8A6"},
	{Name: "blue", Code: "#3B82F6"},
	{Name: "indigo", Code: "#6366F1"},
	{Name: "purple", Code: "#A855F7"},
	{Name: "pink", Code: "#EC4899"},
	{Name: "gray", Code: "#6B7280"},
}

// ColourForIndex returns the palette colour code for the nth created label.
func ColourForIndex(index int) string {
	if len(LabelPalette) == 0 || index < 0 {
		return DefaultColourCode
	}
	return LabelPalette[index%len(LabelPalette)].Code
}
