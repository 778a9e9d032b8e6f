package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar counts saved transactions up to total. Output goes to w,
// normally stderr, so piped stdout stays clean.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(WalletIcon+" "+description),
		progressbar.OptionSetItsString("txn"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(0),
	)
}
