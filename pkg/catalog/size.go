package catalog

import "fmt"

var sizeUnits = []string{"kB", "MB", "GB"}

// FormatSize renders a byte count with one decimal place. Values up to 1024
// carry no unit suffix.
func FormatSize(size int64) string {
	value := float64(size)
	divisions := 0
	for value > 1024 && divisions < len(sizeUnits) {
		value /= 1024
		divisions++
	}
	if divisions == 0 {
		return fmt.Sprintf("%.1f", value)
	}
	return fmt.Sprintf("%.1f%s", value, sizeUnits[divisions-1])
}
