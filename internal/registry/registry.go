// Package registry keeps the content types that accept attachments, together with
// the relation list and admin panel built for each of them.
package registry

import (
	"fmt"
	"html/template"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"attachapi/internal/model"
	"attachapi/internal/render"
)

// PanelID is the id of the attachments meta-box on every registered content type.
const PanelID = "attachments"

const uploadTriggerID = "thickbox_attachments_new"

// Relation actions.
const (
	ActionRemoveRelated  = "remove_related"
	ActionAddToPost      = "add_to_post"
	ActionSortable       = "sortable"
	ActionRemoveFromPost = "remove_from_post"
)

// URLs builds the download links shown in relation lists.
type URLs interface {
	URLFor(attachmentID int64) string
}

// ContentType is a registered content type and the label of its attachments panel.
type ContentType struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Field is one column of a relation list.
type Field struct {
	Label string
	Value func(a model.Attachment) template.HTML
}

// Relation describes the content type -> attachment relationship and how it is listed.
type Relation struct {
	PostType    string
	Related     string
	Fields      []Field
	RowActions  []string
	PostActions []string
}

// Panel is the admin meta-box registered for a content type.
type Panel struct {
	ID       string
	Header   string
	PostType string
	Triggers []render.Trigger
}

// Registry is safe for concurrent use.
type Registry struct {
	baseURL string
	urls    URLs

	mu        sync.RWMutex
	types     map[string]ContentType
	relations map[string]Relation
	panels    map[string]Panel
}

// New returns an empty registry. baseURL is the public origin of admin screens and
// uploaded files.
func New(baseURL string, urls URLs) *Registry {
	return &Registry{
		baseURL:   strings.TrimRight(baseURL, "/"),
		urls:      urls,
		types:     make(map[string]ContentType),
		relations: make(map[string]Relation),
		panels:    make(map[string]Panel),
	}
}

// Register merges types (name -> panel label) into the registry and builds the
// relation and panel of each. Registering a type again replaces its label.
func (r *Registry) Register(types map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, label := range types {
		name = strings.TrimSpace(name)
		if name == "" || name == model.KindAttachment {
			continue
		}
		r.types[name] = ContentType{Name: name, Label: label}
		r.relations[name] = r.relation(name)
		r.panels[name] = r.panel(name, label)
	}
}

func (r *Registry) Lookup(name string) (ContentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[name]
	return ct, ok
}

func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Types returns the registered content types sorted by name.
func (r *Registry) Types() []ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ContentType, 0, len(r.types))
	for _, ct := range r.types {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Relation(name string) (Relation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rel, ok := r.relations[name]
	return rel, ok
}

func (r *Registry) Panel(name string) (Panel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.panels[name]
	return p, ok
}

// PanelView lays out the panel of a content type for one post and its related attachments.
func (r *Registry) PanelView(name string, postID int64, rows []model.Attachment) (render.PanelView, bool) {
	p, ok := r.Panel(name)
	if !ok {
		return render.PanelView{}, false
	}
	rel, _ := r.Relation(name)

	v := render.PanelView{
		ID:          p.ID,
		Header:      p.Header,
		PostType:    name,
		PostID:      postID,
		Relation:    rel.Related,
		RowActions:  rel.RowActions,
		PostActions: rel.PostActions,
		Triggers:    make([]render.Trigger, len(p.Triggers)),
	}
	copy(v.Triggers, p.Triggers)
	for i, t := range v.Triggers {
		if t.ID == uploadTriggerID {
			v.Triggers[i].URL = t.URL + "?post_id=" + strconv.FormatInt(postID, 10)
		}
	}
	for _, f := range rel.Fields {
		v.Columns = append(v.Columns, f.Label)
	}
	for _, a := range rows {
		row := render.PanelRow{ID: a.ID}
		for _, f := range rel.Fields {
			row.Cells = append(row.Cells, f.Value(a))
		}
		v.Rows = append(v.Rows, row)
	}
	return v, true
}

func (r *Registry) relation(postType string) Relation {
	return Relation{
		PostType: postType,
		Related:  model.MetaRelation,
		Fields: []Field{
			{Label: "ID", Value: func(a model.Attachment) template.HTML {
				return template.HTML(strconv.FormatInt(a.ID, 10))
			}},
			{Label: "Attachment", Value: r.attachmentCell},
			{Label: "Downloads", Value: func(a model.Attachment) template.HTML {
				return template.HTML(strconv.FormatInt(a.Downloads, 10))
			}},
		},
		RowActions:  []string{ActionRemoveRelated, ActionAddToPost},
		PostActions: []string{ActionSortable, ActionRemoveFromPost},
	}
}

func (r *Registry) panel(postType, label string) Panel {
	return Panel{
		ID:       PanelID,
		Header:   label,
		PostType: postType,
		Triggers: []render.Trigger{
			{
				ID:    "thickbox_attachments_list",
				Label: "Assign Attachments",
				URL:   r.baseURL + "/admin/attachments?action=list_" + postType + "_attachment",
			},
			{
				ID:    uploadTriggerID,
				Label: "Upload",
				URL:   r.baseURL + "/admin/attachments/upload",
				Class: "thickbox button-primary",
			},
		},
	}
}

// attachmentCell shows a 50x50 thumbnail for images and a file icon otherwise.
func (r *Registry) attachmentCell(a model.Attachment) template.HTML {
	href := template.HTMLEscapeString(r.urls.URLFor(a.ID))
	title := template.HTMLEscapeString(a.Title)
	if a.IsImage() {
		src := template.HTMLEscapeString(r.baseURL + "/uploads/" + a.File)
		return template.HTML(`<a href="` + href + `"><img src="` + src + `" width="50" height="50" alt="` + title + `"/></a>`)
	}
	return template.HTML(`<span class="glyphicon glyphicon-file"></span>` + "\n" + `<a href="` + href + `">` + title + `</a>`)
}

type file struct {
	ContentTypes map[string]string `yaml:"content_types"`
}

// LoadFile reads content types from a YAML document of the form:
//
//	content_types:
//	  post: Attachments
//	  page: Files
func LoadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content types: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse content types %s: %w", path, err)
	}
	if f.ContentTypes == nil {
		f.ContentTypes = map[string]string{}
	}
	return f.ContentTypes, nil
}
