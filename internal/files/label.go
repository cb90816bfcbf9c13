package files

import (
	"fmt"
	"math/rand"
	"strings"
)

type keywordLabel struct {
	keywords []string
	label    string
}

// Checked in order, the first match wins.
var keywordLabels = []keywordLabel{
	{keywords: []string{"report"}, label: "📊 Financial Report"},
	{keywords: []string{"presentation"}, label: "🎯 Presentation"},
	{keywords: []string{"contract"}, label: "📋 Contract/Agreement"},
	{keywords: []string{"invoice"}, label: "💰 Invoice"},
	{keywords: []string{"resume", "cv"}, label: "👔 Resume/CV"},
	{keywords: []string{"backup"}, label: "💾 Backup Data"},
	{keywords: []string{"screenshot"}, label: "📸 Screenshot"},
}

var categoryLabels = map[string][]string{
	CategoryImage:       {"Photo", "Graphic", "Visual Content"},
	CategoryDocument:    {"Text Document", "Report", "Written Content"},
	CategorySpreadsheet: {"Data Table", "Financial Report", "Analytics"},
	CategoryArchive:     {"Compressed Files", "Backup Bundle"},
	CategoryVideo:       {"Video Media", "Recording"},
	CategoryAudio:       {"Audio Recording", "Music"},
}

var fallbackLabels = []string{"File"}

// CategoryLabels returns the label roots a category may be given.
func CategoryLabels(category string) []string {
	if l, ok := categoryLabels[category]; ok {
		return l
	}
	return fallbackLabels
}

// KeywordLabel returns the label picked by a filename keyword, if any.
func KeywordLabel(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, kl := range keywordLabels {
		for _, kw := range kl.keywords {
			if strings.Contains(name, kw) {
				return kl.label, true
			}
		}
	}
	return "", false
}

// GenerateLabel imitates an AI tagger. Filename keywords win; otherwise a
// random label of the category is used, so the result is not reproducible.
func GenerateLabel(c Candidate) string {
	if l, ok := KeywordLabel(c.Name); ok {
		return l
	}
	md := DeriveMetadata(c)
	roots := CategoryLabels(md.Category)
	return fmt.Sprintf("%s (%s)", roots[rand.Intn(len(roots))], md.Extension)
}
