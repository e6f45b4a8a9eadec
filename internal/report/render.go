package report

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/placeholder"
)

// Placeholder names.
const (
	KeyNations  = "nations"
	KeyDelegate = "delegate"
	KeyRegion   = "region"
	KeyDate     = "date"
)

// DateLayout formats the date placeholder.
const DateLayout = "2006-01-02"

// ErrNoNationsPlaceholder is wrapped when a body template cannot carry the list.
var ErrNoNationsPlaceholder = errors.New("body template does not reference the nation list")

// RenderNations joins the handles with commas, each wrapped in a nation tag.
// In test mode the closing tag lacks its slash, so the game shows the text
// without linking or notifying the nation.
func RenderNations(nations []string, test bool) string {
	closing := "[/nation]"
	if test {
		closing = "[nation]"
	}
	var b strings.Builder
	for i, n := range nations {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("[nation]")
		b.WriteString(n)
		b.WriteString(closing)
	}
	return b.String()
}

// RenderBody substitutes the rendered nation list into tmpl.
func RenderBody(tmpl *placeholder.Template, nations []string, test bool) (string, error) {
	if !tmpl.Has(KeyNations) {
		return "", &apperr.TemplateError{Template: tmpl.Name(), Key: KeyNations, Err: ErrNoNationsPlaceholder}
	}
	return tmpl.Execute(map[string]string{KeyNations: RenderNations(nations, test)})
}

// RenderTitle substitutes the delegate's display name, the title-cased
// region and now's date into tmpl.
func RenderTitle(tmpl *placeholder.Template, delegate, region string, now time.Time) (string, error) {
	return tmpl.Execute(map[string]string{
		KeyDelegate: DisplayName(delegate),
		KeyRegion:   TitleCase(region),
		KeyDate:     now.Format(DateLayout),
	})
}

// DisplayName turns a canonical handle into its display form:
// "GREAT_NATION" becomes "Great Nation".
func DisplayName(handle string) string {
	return TitleCase(strings.ReplaceAll(handle, "_", " "))
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. Underscores separate words but are kept.
func TitleCase(s string) string {
	caser := cases.Title(language.English)
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "_")
}
