package delegate

import "github.com/joeydtaylor/trifle/pkg/view"

// renderFallback renders the delegate's own template for action unless the
// host already has one. Missing templates are not an error.
func (b *Base) renderFallback(action string) error {
	v := b.View()
	if v == nil {
		return nil
	}
	if v.ResolveAbsolute(v.ScriptPathFor(action)) != "" {
		return nil
	}
	if len(b.paths) == 0 {
		return nil
	}
	return view.WithFallback(v, b.FallbackPaths(), func() error {
		rel := v.ScriptPathFor(action)
		if v.ResolveAbsolute(rel) == "" {
			return nil
		}
		return v.RenderExplicit(rel)
	})
}
