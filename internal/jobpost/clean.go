package jobpost

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespace = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	htmlTag    = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|span|section|article)\b`)
)

// Clean returns readable text for a job description. Pasted HTML is reduced
// to its block-level text; plain text only has its whitespace collapsed.
func Clean(text string) string {
	if !LooksLikeHTML(text) {
		return normalizeSpace(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return normalizeSpace(text)
	}

	doc.Find("script, style, nav, header, footer, iframe, noscript, form").Remove()
	doc.Find(".menu, .navigation, .social, .banner, .ads, .cookie, .popup").Remove()

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, dt, dd, td").Each(func(_ int, s *goquery.Selection) {
		if block := strings.TrimSpace(s.Text()); block != "" {
			blocks = append(blocks, block)
		}
	})
	if len(blocks) > 0 {
		return normalizeSpace(strings.Join(blocks, "\n"))
	}

	return normalizeSpace(doc.Find("body").Text())
}

// LooksLikeHTML reports whether text contains common HTML markup.
func LooksLikeHTML(text string) bool {
	return htmlTag.MatchString(text)
}

func normalizeSpace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(whitespace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
