package catalog

// Materials and Sizes are the selectable labels offered by the shop sidebar.
var (
	Materials = []string{"Wood", "Metal", "Acrylic", "Canvas"}
	Sizes     = []string{"Small (8x10)", "Medium (16x20)", "Large (24x36)", "Extra Large (30x40)"}
)

// Dimension names accepted by FilterState toggles.
const (
	DimensionCategory = "category"
	DimensionMaterial = "material"
	DimensionSize     = "size"
)

// Toggle applies a set-toggle on the named dimension. It reports false for an
// unknown dimension and leaves the state untouched.
func (f *FilterState) Toggle(dimension, value string) bool {
	switch dimension {
	case DimensionCategory:
		f.ToggleCategory(value)
	case DimensionMaterial:
		f.ToggleMaterial(value)
	case DimensionSize:
		f.ToggleSize(value)
	default:
		return false
	}
	return true
}
