package nav

// DefaultCompactWidth is the column count below which the viewport is compact.
const DefaultCompactWidth = 100

// IsCompact classifies a viewport width. A non-positive threshold falls back
// to DefaultCompactWidth.
func IsCompact(width, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultCompactWidth
	}
	return width < threshold
}

// PanelOpenForViewport is the derived panel state: closed on compact
// viewports, open otherwise.
func PanelOpenForViewport(compact bool) bool {
	return !compact
}
