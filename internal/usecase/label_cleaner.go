package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// LabelCleaner strips grocery packaging noise from pantry labels, so a scanned
// "Whole Milk, 1 gallon" is indexed as "whole milk".
type LabelCleaner struct {
	logger *zap.Logger
}

var (
	// "128 fl oz", "1.5 liters", "2 lb", "500 g"
	labelSizePattern = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(fl\s*)?oz\b|\b\d+\.?\d*\s*(fl\s*)?ounces?\b|\b\d+\.?\d*\s*lbs?\b|\b\d+\.?\d*\s*pounds?\b|\b\d+\.?\d*\s*ml\b|\b\d+\.?\d*\s*liters?\b|\b\d+\.?\d*\s*litres?\b|\b\d+\.?\d*\s*gallons?\b|\b\d+\.?\d*\s*quarts?\b|\b\d+\.?\d*\s*pints?\b|\b\d+\.?\d*\s*kg\b|\b\d+\.?\d*\s*grams?\b|\b\d+\.?\d*\s*g\b`)

	// "12 pack", "pack of 6", "6-pack", "24 count", "6 ct", "4 cans"
	labelPackPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b|\b\d+\s*cans?\b|\b\d+\s*bottles?\b|\b\d+\s*pouches?\b|\b\d+\s*pieces?\b`)

	// trailing ", 128" or leading "12 -"
	labelEdgeNumberPattern = regexp.MustCompile(`[,\-]\s*\d+\.?\d*\s*$|^\d+\.?\d*\s*[,\-]`)

	labelLonePunctPattern     = regexp.MustCompile(`\s+[,\-;:]+\s+`)
	labelTrailingPunctPattern = regexp.MustCompile(`[,\-;:]+\s*$`)
	labelLeadingPunctPattern  = regexp.MustCompile(`^\s*[,\-;:]+`)
)

// labelNoiseWords are marketing and packaging terms. Size words such as
// "large" stay, since "large eggs" is a real ingredient name.
var labelNoiseWords = map[string]bool{
	"value":     true,
	"family":    true,
	"size":      true,
	"bonus":     true,
	"new":       true,
	"improved":  true,
	"premium":   true,
	"quality":   true,
	"best":      true,
	"great":     true,
	"delicious": true,
	"tasty":     true,
	"favorite":  true,
	"special":   true,

	"package": true,
	"box":     true,
	"bag":     true,
	"bottle":  true,
	"can":     true,
	"jar":     true,
	"tub":     true,
	"carton":  true,
	"sleeve":  true,
	"pouch":   true,

	"item":    true,
	"product": true,
	"brand":   true,
}

// NewLabelCleaner creates a label cleaner
func NewLabelCleaner(logger *zap.Logger) *LabelCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabelCleaner{logger: logger}
}

// Clean removes sizes, pack counts and marketing words from a label and lower-cases
// what remains. If nothing survives, the trimmed label is returned unchanged.
func (c *LabelCleaner) Clean(label string) string {
	original := strings.TrimSpace(label)
	if original == "" {
		return ""
	}

	cleaned := labelSizePattern.ReplaceAllString(original, " ")
	cleaned = labelPackPattern.ReplaceAllString(cleaned, " ")
	cleaned = labelEdgeNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeLabelNoise(cleaned)

	cleaned = labelLonePunctPattern.ReplaceAllString(cleaned, " ")
	cleaned = labelTrailingPunctPattern.ReplaceAllString(cleaned, "")
	cleaned = labelLeadingPunctPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if cleaned == "" {
		return original
	}

	if cleaned != strings.ToLower(original) {
		c.logger.Debug("cleaned pantry label",
			zap.String("label", original),
			zap.String("cleaned", cleaned),
		)
	}
	return cleaned
}

func removeLabelNoise(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := words[:0]
	for _, word := range words {
		if !labelNoiseWords[strings.Trim(word, ",.!?;:-'\"")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
