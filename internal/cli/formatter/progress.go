package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders subtask progress like [████░░░░] 2/4. The bar is
// green once every step is done, yellow past halfway and dim otherwise.
// Tasks without subtasks render empty.
func RenderProgress(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	if width < 2 {
		width = 2
	}
	if done > total {
		done = total
	}

	filled := done * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleDim
	switch {
	case done == total:
		style = StyleGreen
	case done*2 >= total:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}

// ProgressCount is the compact card form, e.g. "2/5".
func ProgressCount(done, total int) string {
	if total <= 0 {
		return ""
	}
	if done == total {
		return StyleGreen.Render(fmt.Sprintf("%d/%d", done, total))
	}
	return Dim(fmt.Sprintf("%d/%d", done, total))
}
