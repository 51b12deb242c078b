package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/seekly/matcher/internal/store"
)

// reasonSeparator joins the reason fragments into one explanation string.
const reasonSeparator = "; "

// Match is one scored posting. Score is in [0, 1].
type Match struct {
	Job     *store.JobPosting `json:"job"`
	Score   float64           `json:"score"`
	Reasons []string          `json:"reasons,omitempty"`
	Insight string            `json:"insight,omitempty"`
}

// Explanation joins the reason fragments with a visible separator.
func (m *Match) Explanation() string {
	return strings.Join(m.Reasons, reasonSeparator)
}

type Matches struct {
	Items []*Match `json:"items"`
}

func (m *Matches) Len() int {
	return len(m.Items)
}

// DumpToTmpFile writes the matches as indented JSON to a temp file and
// returns its name.
func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByEmployer groups matches per employer for a compact console report.
func (m *Matches) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, match := range m.Items {
		job := match.Job
		report[job.Employer] = append(report[job.Employer], map[string]string{
			"title":       job.Title,
			"location":    fmt.Sprintf("%s, %s", job.City, job.Region),
			"salary":      fmt.Sprintf("%d-%d %s", job.Salary.Min, job.Salary.Max, job.Salary.Currency),
			"score":       fmt.Sprintf("%.2f", match.Score),
			"explanation": match.Explanation(),
			"insight":     match.Insight,
		})
	}
	return report
}
