package locations

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/finder"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
)

type ParseCmd struct {
	Text string `arg:"" help:"Schedule text, e.g. \"Thursdays, 9 am - 12 pm\"."`
	JSON bool   `help:"Print the parsed schedule as JSON."`
}

type parseOutput struct {
	Input    string               `json:"input"`
	Schedule *models.ScheduleView `json:"schedule"`
	Status   string               `json:"status"`
	Warnings []string             `json:"warnings,omitempty"`
}

func (c *ParseCmd) Run(ctx *cli.Context) error {
	out, err := renderParse(c.Text, ctx.Moment(), c.JSON)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

func renderParse(text string, at schedule.Moment, asJSON bool) (string, error) {
	parsed := schedule.Parse(text)
	status := schedule.IsOpenNow(parsed, at)

	result := parseOutput{
		Input:    text,
		Schedule: models.NewScheduleView(parsed),
		Status:   string(status.Code()),
		Warnings: scheduleWarnings(parsed),
	}

	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode schedule: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	if parsed == nil {
		b.WriteString("No schedule given\n")
	} else {
		fmt.Fprintf(&b, "Kind:   %s\n", parsed.Kind())
		fmt.Fprintf(&b, "Parsed: %s\n", parsed)
	}
	fmt.Fprintf(&b, "Now:    %s", result.Status)
	if badge := finder.Badge(status); badge != "" {
		fmt.Fprintf(&b, " (%s)", badge)
	}
	b.WriteString("\n")
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "⚠ %s\n", w)
	}
	return b.String(), nil
}

func scheduleWarnings(s models.ParsedSchedule) []string {
	var warnings []string
	if w, ok := s.(models.Weekly); ok {
		for _, r := range w.InvertedRanges() {
			warnings = append(warnings, fmt.Sprintf("%s crosses midnight and will never match", r))
		}
	}
	switch s.(type) {
	case models.Unparseable:
		warnings = append(warnings, "days were found but no times")
	case models.Unknown:
		warnings = append(warnings, "no days or times were recognized")
	case models.MonthlyUnstructured:
		warnings = append(warnings, "monthly schedule without a weekday and ordinal")
	}
	return warnings
}

// schedulePreview summarizes how text was understood, or "" when empty.
func schedulePreview(text string) string {
	parsed := schedule.Parse(text)
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
