package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ternarybob/docsift/internal/models"
)

// Markdown renders a parse result as a Markdown report with sections for
// statistics, text blocks, images, tables, and equations.
func Markdown(result *models.ParseResult) string {
	var parts []string
	add := func(s string) { parts = append(parts, s) }

	add(fmt.Sprintf("# Parsing Results: %s\n", result.Filename))
	add(fmt.Sprintf("**Processing Time:** %s\n", result.ProcessingTime))

	stats := result.Statistics
	add("## 📊 Statistics\n")
	for _, s := range []struct {
		key   string
		value int64
	}{
		{"total_text_blocks", int64(stats.TotalTextBlocks)},
		{"total_images", int64(stats.TotalImages)},
		{"total_tables", int64(stats.TotalTables)},
		{"total_equations", int64(stats.TotalEquations)},
		{"total_words", int64(stats.TotalWords)},
		{"total_characters", int64(stats.TotalCharacters)},
		{"processing_time_ms", stats.ProcessingTimeMs},
	} {
		add(fmt.Sprintf("- **%s:** %d", titleCase(s.key), s.value))
	}
	add("\n")

	content := result.ContentTypes

	if len(content.TextBlocks) > 0 {
		add("## 📝 Text Content\n")
		for i, block := range content.TextBlocks {
			add(fmt.Sprintf("### Text Block %d (%s)\n", i+1, titleCase(block.Type)))
			add(fmt.Sprintf("**Words:** %d | **Confidence:** %.2f\n", block.WordCount, block.Confidence))
			add(fmt.Sprintf("```\n%s\n```\n", block.Content))
		}
	}

	if len(content.Images) > 0 {
		add("## 🖼️ Images\n")
		for i, img := range content.Images {
			add(fmt.Sprintf("### Image %d\n", i+1))
			add(fmt.Sprintf("**Caption:** %s\n", img.Caption))
			add(fmt.Sprintf("**Description:** %s\n", img.Description))
			add(fmt.Sprintf("**Confidence:** %.2f\n", img.Confidence))
			if len(img.Metadata) > 0 {
				add("**Metadata:**\n")
				keys := make([]string, 0, len(img.Metadata))
				for k := range img.Metadata {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					add(fmt.Sprintf("- %s: %s", titleCase(k), img.Metadata[k]))
				}
			}
			add("\n")
		}
	}

	if len(content.Tables) > 0 {
		add("## 📊 Tables\n")
		for i, table := range content.Tables {
			add(fmt.Sprintf("### Table %d\n", i+1))
			add(fmt.Sprintf("**Caption:** %s\n", table.Caption))
			add(fmt.Sprintf("**Confidence:** %.2f\n", table.Confidence))
			if len(table.Headers) > 0 && len(table.Rows) > 0 {
				add("| " + strings.Join(table.Headers, " | ") + " |")
				add("|" + strings.Repeat("---|", len(table.Headers)))
				for _, row := range table.Rows {
					add("| " + strings.Join(row, " | ") + " |")
				}
			}
			add("\n")
		}
	}

	if len(content.Equations) > 0 {
		add("## 🧮 Equations\n")
		for i, eq := range content.Equations {
			add(fmt.Sprintf("### Equation %d\n", i+1))
			add(fmt.Sprintf("**Description:** %s\n", eq.Description))
			add(fmt.Sprintf("**Confidence:** %.2f\n", eq.Confidence))
			add(fmt.Sprintf("**LaTeX:** `%s`\n", eq.LaTeX))
			if len(eq.Variables) > 0 {
				add(fmt.Sprintf("**Variables:** %s\n", strings.Join(eq.Variables, ", ")))
			}
			add("\n")
		}
	}

	return strings.Join(parts, "\n")
}

// titleCase capitalizes the first letter of each word, treating
// underscores and other non-letter runs as word boundaries. The
// separators themselves become spaces for snake_case keys.
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	var b strings.Builder
	b.Grow(len(s))
	prev := ' '
	for _, r := range s {
		if unicode.IsLetter(prev) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prev = r
	}
	return b.String()
}

// Truncate shortens text for display, appending an ellipsis when the
// limit is exceeded.
func Truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
