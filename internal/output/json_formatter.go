package output

import (
	"encoding/json"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// JSONFormatter serializes the compensation report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.CompensationReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
