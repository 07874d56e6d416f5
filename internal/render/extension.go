package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"attachapi/internal/model"
)

// AttachmentSource is what the download extensions need from the attachment store.
type AttachmentSource interface {
	ListPostAttachments(ctx context.Context, postID int64) ([]model.Attachment, error)
	URLFor(attachmentID int64) string
	PostURLFor(postID int64) string
}

// Extension installs shortcodes and widgets backed by src.
type Extension func(src AttachmentSource, sc *Shortcodes, w *Widgets)

// Extensions is the fixed table of capabilities that can be enabled at startup.
var Extensions = map[string]Extension{
	"download_attachments": installDownloadAttachments,
}

// ExtensionNames returns the keys of Extensions, sorted.
func ExtensionNames() []string {
	names := make([]string, 0, len(Extensions))
	for n := range Extensions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Install enables the named capabilities. Unknown names are an error.
func Install(names []string, src AttachmentSource, sc *Shortcodes, w *Widgets) error {
	for _, n := range names {
		ext, ok := Extensions[n]
		if !ok {
			return fmt.Errorf("unknown extension %q", n)
		}
		ext(src, sc, w)
	}
	return nil
}

func installDownloadAttachments(src AttachmentSource, sc *Shortcodes, w *Widgets) {
	sc.Add("download_attachments", func(ctx context.Context, attrs map[string]string) (string, error) {
		postID, err := strconv.ParseInt(strings.TrimSpace(attrs["post_id"]), 10, 64)
		if err != nil || postID <= 0 {
			return "", nil
		}
		separator, ok := attrs["separator"]
		if !ok {
			separator = DefaultSeparator
		}
		return downloadList(ctx, src, postID, separator, attrs["before"], attrs["after"], attrs["all"] == "true")
	})

	w.Add("download_attachments", func(ctx context.Context, settings map[string]string) (string, error) {
		postID, err := strconv.ParseInt(strings.TrimSpace(settings["post_id"]), 10, 64)
		if err != nil || postID <= 0 {
			return "", nil
		}
		list, err := downloadList(ctx, src, postID, DefaultSeparator, "", "", false)
		if err != nil || list == "" {
			return "", err
		}

		var buf bytes.Buffer
		err = templates.ExecuteTemplate(&buf, "widget.html", map[string]any{
			"Title": settings["title"],
			"Body":  template.HTML(list),
		})
		if err != nil {
			return "", fmt.Errorf("render widget: %w", err)
		}
		return buf.String(), nil
	})
}

func downloadList(ctx context.Context, src AttachmentSource, postID int64, separator, before, after string, all bool) (string, error) {
	atts, err := src.ListPostAttachments(ctx, postID)
	if err != nil {
		return "", err
	}
	if len(atts) == 0 {
		return "", nil
	}
	if !all {
		return List(atts, src.URLFor, separator, before, after), nil
	}
	inner := List(atts, src.URLFor, separator, "", "")
	return before + inner + separator + button(src.PostURLFor(postID), "Download All", "btn btn-primary") + after, nil
}
