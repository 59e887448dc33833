package browser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxLabelCandidates caps how many discovered court labels are activated.
const MaxLabelCandidates = 8

// labelPatterns match the site's court tab naming conventions, both the
// romanized and the Japanese forms.
var labelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcourt\s*[0-9A-Z]{1,3}\b`),
	regexp.MustCompile(`第\s*[0-9０-９]{1,2}\s*コート`),
	regexp.MustCompile(`コート\s*[0-9０-９A-ZＡ-Ｚ]{1,2}`),
	regexp.MustCompile(`[A-D]面`),
}

// DiscoverLabels scans rendered HTML for court-tab labels. Candidates are
// deduplicated in document order and capped at MaxLabelCandidates.
func DiscoverLabels(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var labels []string
	seen := make(map[string]bool)

	doc.Find("a, button, li, span, td, th, div").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		// Tab labels are short; long texts are containers whose children
		// will be visited separately.
		if text == "" || len([]rune(text)) > 24 {
			return
		}
		for _, pattern := range labelPatterns {
			match := strings.TrimSpace(pattern.FindString(text))
			if match == "" {
				continue
			}
			if !seen[match] && len(labels) < MaxLabelCandidates {
				seen[match] = true
				labels = append(labels, match)
			}
			break
		}
	})

	return labels
}
