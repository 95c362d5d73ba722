package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/skills"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use %s or %s)", format, outputText, outputJSON)
	}
}

func writeReport(w io.Writer, format string, report *analysis.Report) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d%%\n", report.Score)
	fmt.Fprintf(&b, "%s vs %s\n\n", report.CandidateLabel, report.ReferenceLabel)
	writeList(&b, report.CandidateLabel+" skills", report.CandidateSkills)
	writeList(&b, report.ReferenceLabel+" skills", report.ReferenceSkills)
	writeList(&b, "Matched", report.Matched)
	writeList(&b, "Missing", report.Missing)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, list skills.List) {
	fmt.Fprintf(b, "%s (%d):\n", title, len(list))
	if len(list) == 0 {
		b.WriteString("  none\n")
		return
	}
	for _, s := range list {
		fmt.Fprintf(b, "  - %s\n", s)
	}
}
