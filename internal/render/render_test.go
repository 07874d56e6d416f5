package render

import (
	"context"
	"errors"
	"html/template"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attachapi/internal/model"
)

type fakeSource struct {
	atts map[int64][]model.Attachment
	err  error
}

func (f fakeSource) ListPostAttachments(_ context.Context, postID int64) ([]model.Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.atts[postID], nil
}

func (fakeSource) URLFor(id int64) string {
	return "http://x/download?id=" + strconv.FormatInt(id, 10)
}

func (fakeSource) PostURLFor(id int64) string {
	return "http://x/download?post_id=" + strconv.FormatInt(id, 10)
}

func twoAttachments() []model.Attachment {
	return []model.Attachment{
		{ID: 101, Title: "a"},
		{ID: 102, Title: "b"},
	}
}

func TestLink(t *testing.T) {
	got := Link("http://x/download?id=101", `Q&A "notes"`)
	assert.Equal(t, `<a href="http://x/download?id=101" title="Q&amp;A &#34;notes&#34;">Q&amp;A &#34;notes&#34;</a>`, got)
}

func TestList(t *testing.T) {
	src := fakeSource{}

	t.Run("joins buttons", func(t *testing.T) {
		got := List(twoAttachments(), src.URLFor, DefaultSeparator, "<p>", "</p>")
		assert.Equal(t,
			`<p><a href="http://x/download?id=101" class="btn btn-success">Download a</a><br/>`+
				`<a href="http://x/download?id=102" class="btn btn-success">Download b</a></p>`, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "[]", List(nil, src.URLFor, ",", "[", "]"))
	})

	t.Run("title is escaped", func(t *testing.T) {
		got := List([]model.Attachment{{ID: 1, Title: "<b>"}}, src.URLFor, "", "", "")
		assert.Contains(t, got, "Download &lt;b&gt;")
	})
}

func TestShortcodes_Expand(t *testing.T) {
	ctx := context.Background()
	sc := NewShortcodes()
	sc.Add("hello", func(_ context.Context, attrs map[string]string) (string, error) {
		return "Hi " + attrs["name"] + attrs["other"], nil
	})

	t.Run("known and unknown", func(t *testing.T) {
		got, err := sc.Expand(ctx, `A [hello name="Ann" other='!'] B [gallery id=3] C [hello name=Bob /]`)
		require.NoError(t, err)
		assert.Equal(t, `A Hi Ann! B [gallery id=3] C Hi Bob`, got)
	})

	t.Run("no shortcodes", func(t *testing.T) {
		got, err := sc.Expand(ctx, "plain [text")
		require.NoError(t, err)
		assert.Equal(t, "plain [text", got)
	})

	t.Run("renderer error", func(t *testing.T) {
		sc.Add("broken", func(context.Context, map[string]string) (string, error) {
			return "", errors.New("boom")
		})
		_, err := sc.Expand(ctx, "[broken]")
		assert.EqualError(t, err, "boom")
	})
}

func TestInstall(t *testing.T) {
	sc, w := NewShortcodes(), NewWidgets()

	assert.Error(t, Install([]string{"nope"}, fakeSource{}, sc, w))
	require.NoError(t, Install(ExtensionNames(), fakeSource{}, sc, w))

	assert.True(t, sc.Has("download_attachments"))
	assert.Equal(t, []string{"download_attachments"}, w.Names())
}

func TestDownloadAttachmentsShortcode(t *testing.T) {
	ctx := context.Background()
	sc, w := NewShortcodes(), NewWidgets()
	src := fakeSource{atts: map[int64][]model.Attachment{42: twoAttachments()}}
	require.NoError(t, Install([]string{"download_attachments"}, src, sc, w))

	t.Run("default separator", func(t *testing.T) {
		got, err := sc.Expand(ctx, `[download_attachments post_id="42"]`)
		require.NoError(t, err)
		assert.Equal(t, List(twoAttachments(), src.URLFor, "<br/>", "", ""), got)
	})

	t.Run("custom wrapping and download all", func(t *testing.T) {
		got, err := sc.Expand(ctx, `[download_attachments post_id="42" separator=" | " before="<div>" after="</div>" all="true"]`)
		require.NoError(t, err)
		assert.Equal(t,
			`<div><a href="http://x/download?id=101" class="btn btn-success">Download a</a> | `+
				`<a href="http://x/download?id=102" class="btn btn-success">Download b</a> | `+
				`<a href="http://x/download?post_id=42" class="btn btn-primary">Download All</a></div>`, got)
	})

	t.Run("post without attachments renders nothing", func(t *testing.T) {
		got, err := sc.Expand(ctx, `x[download_attachments post_id="7"]y`)
		require.NoError(t, err)
		assert.Equal(t, "xy", got)
	})

	t.Run("missing post id renders nothing", func(t *testing.T) {
		got, err := sc.Expand(ctx, `[download_attachments]`)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDownloadAttachmentsWidget(t *testing.T) {
	ctx := context.Background()
	sc, w := NewShortcodes(), NewWidgets()
	src := fakeSource{atts: map[int64][]model.Attachment{42: twoAttachments()}}
	require.NoError(t, Install([]string{"download_attachments"}, src, sc, w))

	got, err := w.Render(ctx, "download_attachments", map[string]string{"title": "Files & docs", "post_id": "42"})
	require.NoError(t, err)
	assert.Contains(t, got, `<h3 class="widget-title">Files &amp; docs</h3>`)
	assert.Contains(t, got, `class="btn btn-success">Download a</a><br/>`)

	got, err = w.Render(ctx, "download_attachments", map[string]string{"post_id": "7"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = w.Render(ctx, "calendar", nil)
	assert.ErrorIs(t, err, ErrUnknownWidget)
}

func TestPanel(t *testing.T) {
	out, err := Panel(PanelView{
		ID:          "attachments",
		Header:      "Attachments",
		PostType:    "post",
		PostID:      42,
		Relation:    "attachment",
		Columns:     []string{"ID", "Attachment", "Downloads"},
		Rows:        []PanelRow{{ID: 101, Cells: []template.HTML{"101", `<span class="glyphicon glyphicon-file"></span>`, "3"}}},
		RowActions:  []string{"remove_related", "add_to_post"},
		PostActions: []string{"sortable", "remove_from_post"},
		Triggers: []Trigger{
			{ID: "thickbox_attachments_list", Label: "Assign Attachments", URL: "http://x/admin/attachments"},
			{ID: "thickbox_attachments_new", Label: "Upload", URL: "http://x/admin/attachments/upload", Class: "thickbox button-primary"},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, out, `<div id="attachments" class="postbox"`)
	assert.Contains(t, out, `<h3 class="hndle">Attachments</h3>`)
	assert.Contains(t, out, `data-actions="sortable remove_from_post"`)
	assert.Contains(t, out, `<td><span class="glyphicon glyphicon-file"></span></td>`)
	assert.Contains(t, out, `data-action="remove_from_post" data-id="101"`)
	assert.Contains(t, out, `class="thickbox button">Assign Attachments</a>`)
	assert.Contains(t, out, `class="thickbox button-primary">Upload</a>`)
}

func TestUploadForm(t *testing.T) {
	out, err := UploadForm("/attachments", 42)
	require.NoError(t, err)
	assert.Contains(t, out, `action="/attachments"`)
	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `<input type="hidden" name="post_id" value="42"/>`)
	assert.Contains(t, out, `<input type="file" name="file" required/>`)

	out, err = UploadForm("/attachments", 0)
	require.NoError(t, err)
	assert.NotContains(t, out, "post_id")
}
