package content

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to truncated excerpts
const Ellipsis = "…"

// blockSelector lists elements followed by a word break when converted to text
const blockSelector = "p, br, div, li, h1, h2, h3, h4, h5, h6, blockquote, pre, tr, td"

// descriptionPolicy allows user-generated-content markup in event descriptions
var descriptionPolicy = bluemonday.UGCPolicy()

// letters without a unicode decomposition
var specialLetters = strings.NewReplacer("ł", "l", "Ł", "L", "ø", "o", "Ø", "O", "æ", "a", "Æ", "A", "ß", "ss")

// PlainText converts an HTML fragment to text with collapsed whitespace
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(bluemonday.StrictPolicy().Sanitize(html)), " ")
	}
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Sanitize removes scripts, styles and unsafe attributes from HTML
func Sanitize(html string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(html))
}

// Excerpt truncates text to the given number of words and appends Ellipsis.
// Shorter text is only whitespace-collapsed, so Excerpt(Excerpt(s, n), n) == Excerpt(s, n).
func Excerpt(text string, words int) string {
	fields := strings.Fields(text)
	if words <= 0 || len(fields) <= words {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:words], " ") + Ellipsis
}

// Slugify makes a lowercase dash separated ascii slug. Diacritics are folded
// ("Kraków" -> "krakow"), punctuation is dropped, spaces, dashes and underscores become single dashes.
func Slugify(s string) string {
	folded := Fold(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	sep := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '-', r == '_', unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}

// Fold removes diacritics, "Łódź" -> "Lodz"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, specialLetters.Replace(s))
	if err != nil {
		return s
	}
	return res
}
