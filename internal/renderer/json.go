package renderer

import (
	"encoding/json"
	"io"

	"p12expiry/pkg/models"
)

type JSONRenderer struct {
	Indent bool
	Quiet  bool
}

func NewJSONRenderer(quiet bool) *JSONRenderer {
	return &JSONRenderer{Indent: true, Quiet: quiet}
}

type jsonReport struct {
	*models.Report
	Message string `json:"message"`
}

func (j *JSONRenderer) Render(w io.Writer, report *models.Report) error {
	if report == nil {
		return json.NewEncoder(w).Encode(map[string]string{"error": "report cannot be nil"})
	}
	if report.Suppressed(j.Quiet) {
		return nil
	}

	encoder := json.NewEncoder(w)
	if j.Indent {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(jsonReport{Report: report, Message: Message(report)})
}
