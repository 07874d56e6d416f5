package render

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrUnknownWidget is returned when rendering a widget that was never installed.
var ErrUnknownWidget = errors.New("unknown widget")

// WidgetFunc renders a widget instance from its settings.
type WidgetFunc func(ctx context.Context, settings map[string]string) (string, error)

// Widgets maps widget names to their renderers.
type Widgets struct {
	mu    sync.RWMutex
	funcs map[string]WidgetFunc
}

func NewWidgets() *Widgets {
	return &Widgets{funcs: make(map[string]WidgetFunc)}
}

func (w *Widgets) Add(name string, fn WidgetFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.funcs[name] = fn
}

// Names returns the installed widget names, sorted.
func (w *Widgets) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.funcs))
	for n := range w.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (w *Widgets) Render(ctx context.Context, name string, settings map[string]string) (string, error) {
	w.mu.RLock()
	fn, ok := w.funcs[name]
	w.mu.RUnlock()
	if !ok {
		return "", ErrUnknownWidget
	}
	return fn(ctx, settings)
}
