package renderer

import (
	"fmt"
	"io"
	"time"

	"p12expiry/pkg/models"
)

// LocalTimeLayout is how expiration instants appear in messages, matching
// date(1)'s default output.
const LocalTimeLayout = time.UnixDate

type Renderer interface {
	Render(w io.Writer, report *models.Report) error
}

// TextRenderer writes the one-line status message.
type TextRenderer struct {
	Quiet bool
}

func NewTextRenderer(quiet bool) *TextRenderer {
	return &TextRenderer{Quiet: quiet}
}

func (r *TextRenderer) Render(w io.Writer, report *models.Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if report.Suppressed(r.Quiet) {
		return nil
	}

	_, err := fmt.Fprintln(w, Message(report))
	return err
}

// Message returns the status line for a report, regardless of quiet mode.
func Message(report *models.Report) string {
	local := report.ExpiresAt.Format(LocalTimeLayout)

	switch report.State {
	case models.StateExpired:
		return fmt.Sprintf("Certificate %s *EXPIRED* at %s", report.Archive, local)
	case models.StateExpiresToday:
		return fmt.Sprintf("Certificate %s *EXPIRES TODAY* at %s", report.Archive, local)
	case models.StateExpiresTomorrow:
		return fmt.Sprintf("Certificate %s *EXPIRES TOMORROW* at %s", report.Archive, local)
	case models.StateExpiresSoon:
		return fmt.Sprintf("Certificate %s *EXPIRES IN %d DAYS* on %s", report.Archive, report.DaysRemaining, local)
	default:
		return fmt.Sprintf("Certificate %s does not expire for another %d days on %s", report.Archive, report.DaysRemaining, local)
	}
}
