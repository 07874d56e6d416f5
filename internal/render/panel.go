package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("render").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/*.html"))

// Trigger is a button that opens a modal screen.
type Trigger struct {
	ID    string
	Label string
	URL   string
	Class string
}

// PanelRow is one related attachment in the admin panel.
type PanelRow struct {
	ID    int64
	Cells []template.HTML
}

// PanelView is everything the admin attachments panel shows for one post.
type PanelView struct {
	ID          string
	Header      string
	PostType    string
	PostID      int64
	Relation    string
	Columns     []string
	Rows        []PanelRow
	RowActions  []string
	PostActions []string
	Triggers    []Trigger
}

// Panel renders the admin meta-box for v.
func Panel(v PanelView) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "panel.html", v); err != nil {
		return "", fmt.Errorf("render panel: %w", err)
	}
	return buf.String(), nil
}

// UploadForm renders the modal form that posts a new attachment to action.
// A positive postID relates the upload to that post.
func UploadForm(action string, postID int64) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Action string
		PostID int64
	}{action, postID}
	if err := templates.ExecuteTemplate(&buf, "upload.html", data); err != nil {
		return "", fmt.Errorf("render upload form: %w", err)
	}
	return buf.String(), nil
}
