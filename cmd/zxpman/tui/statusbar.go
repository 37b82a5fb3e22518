package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/cepkit/zxpman/pkg/zxpman/notify"
)

// renderStatusBar renders the single-slot status line. An active
// notification occupies the slot; otherwise an idle summary with the
// installed plugin count is shown.
func renderStatusBar(n notify.Notification, version string, count int, width int) string {
	if !n.IsZero() {
		text := n.Text
		if width > 3 && len(text) > width {
			text = text[:width-3] + "..."
		}
		switch n.Category {
		case notify.Success:
			return successTextStyle.Render(text)
		case notify.Error:
			return errorTextStyle.Render(text)
		case notify.Info:
			return infoTextStyle.Render(text)
		default:
			return mutedTextStyle.Render(text)
		}
	}

	idle := fmt.Sprintf("zxpman %s | Plugins installed: %s", version, humanize.Comma(int64(count)))
	return mutedTextStyle.Render(idle)
}
