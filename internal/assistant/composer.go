package assistant

import (
	"fmt"

	"github.com/mkraev/clipsync/internal/core"
)

// ComposePrompt combines a workflow's instruction with the target item's
// content. Without an item the instruction passes through unchanged; with
// one, the item is appended as a quoted context block. Structured items
// contribute their fields as "label: value" lines.
func ComposePrompt(instruction string, item *core.Item) string {
	if item == nil {
		return instruction
	}
	return fmt.Sprintf("%s\n\nContext from %q:\n%s", instruction, item.Title, item.SearchText())
}
