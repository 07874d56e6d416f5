package render

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

// ShortcodeFunc renders one shortcode occurrence from its attributes.
type ShortcodeFunc func(ctx context.Context, attrs map[string]string) (string, error)

var (
	shortcodeRe = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_-]*)((?:\s+[A-Za-z_][A-Za-z0-9_-]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s\]"']+))*)\s*/?\]`)
	attrRe      = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s\]"']+))`)
)

// Shortcodes maps shortcode names to their renderers.
type Shortcodes struct {
	mu    sync.RWMutex
	funcs map[string]ShortcodeFunc
}

func NewShortcodes() *Shortcodes {
	return &Shortcodes{funcs: make(map[string]ShortcodeFunc)}
}

// Add registers fn under name, replacing any previous renderer.
func (s *Shortcodes) Add(name string, fn ShortcodeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs[strings.ToLower(name)] = fn
}

func (s *Shortcodes) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.funcs[strings.ToLower(name)]
	return ok
}

// Expand replaces every known self-closing shortcode in content with its rendering.
// Unknown shortcodes are left as written.
func (s *Shortcodes) Expand(ctx context.Context, content string) (string, error) {
	matches := shortcodeRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := strings.ToLower(content[m[2]:m[3]])
		s.mu.RLock()
		fn, ok := s.funcs[name]
		s.mu.RUnlock()
		if !ok {
			continue
		}

		out, err := fn(ctx, parseAttrs(content[m[4]:m[5]]))
		if err != nil {
			return "", err
		}
		b.WriteString(content[last:m[0]])
		b.WriteString(out)
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

func parseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		if v == "" {
			v = m[4]
		}
		attrs[strings.ToLower(m[1])] = v
	}
	return attrs
}
