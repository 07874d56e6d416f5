// Package render produces the HTML fragments shown to visitors and editors:
// download links and lists, shortcodes, widgets and the admin attachments panel.
package render

import (
	"html"
	"strings"

	"attachapi/internal/model"
)

// DefaultSeparator joins list items when the caller does not choose one.
const DefaultSeparator = "<br/>"

// Link renders an anchor to url labelled and titled with title.
func Link(url, title string) string {
	t := html.EscapeString(title)
	return `<a href="` + html.EscapeString(url) + `" title="` + t + `">` + t + `</a>`
}

// List renders one download button per attachment, joined by separator and wrapped
// in before and after. separator, before and after are trusted markup.
func List(atts []model.Attachment, urlFor func(int64) string, separator, before, after string) string {
	items := make([]string, 0, len(atts))
	for _, a := range atts {
		items = append(items, button(urlFor(a.ID), "Download "+a.Title, "btn btn-success"))
	}
	return before + strings.Join(items, separator) + after
}

func button(url, label, class string) string {
	return `<a href="` + html.EscapeString(url) + `" class="` + class + `">` + html.EscapeString(label) + `</a>`
}
