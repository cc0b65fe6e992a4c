package extract

import (
	"regexp"
	"strings"

	"github.com/ternarybob/docsift/internal/models"
)

var (
	displayEqRe  = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	envEqRe      = regexp.MustCompile(`(?s)\\begin\{equation\}(.+?)\\end\{equation\}`)
	inlineEqRe   = regexp.MustCompile(`\$([^$\n]+)\$`)
	eqVariableRe = regexp.MustCompile(`[a-zA-Z]`)
)

// DetectEquations finds LaTeX expressions in text. Display math
// ($$...$$ and equation environments) is detected before inline math so
// inline matching runs against the remaining text only.
func DetectEquations(text string) []models.RawEquation {
	var equations []models.RawEquation

	add := func(latex, eqType string) {
		latex = strings.TrimSpace(latex)
		if latex == "" {
			return
		}
		equations = append(equations, models.RawEquation{
			LaTeX:      latex,
			Type:       eqType,
			Variables:  equationVariables(latex),
			Confidence: models.Confidence(0.90),
		})
	}

	for _, m := range displayEqRe.FindAllStringSubmatch(text, -1) {
		add(m[1], "display")
	}
	text = displayEqRe.ReplaceAllString(text, "")

	for _, m := range envEqRe.FindAllStringSubmatch(text, -1) {
		add(m[1], "display")
	}
	text = envEqRe.ReplaceAllString(text, "")

	for _, m := range inlineEqRe.FindAllStringSubmatch(text, -1) {
		add(m[1], "inline")
	}

	return equations
}

// equationVariables extracts single-letter variable names, excluding
// LaTeX command words, in order of first appearance.
func equationVariables(latex string) []string {
	// Strip commands like \frac, \sum before scanning for letters.
	stripped := regexp.MustCompile(`\\[a-zA-Z]+`).ReplaceAllString(latex, " ")

	seen := make(map[string]bool)
	var vars []string
	for _, m := range eqVariableRe.FindAllString(stripped, -1) {
		if !seen[m] {
			seen[m] = true
			vars = append(vars, m)
		}
	}
	return vars
}
