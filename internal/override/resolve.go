package override

import "github.com/framewall/internal/db"

// Effective is the fully resolved display configuration for one gallery:
// every attribute has a concrete value, override applied where set, global
// default otherwise.
type Effective struct {
	Columns          int
	LightboxEnabled  bool
	HoverZoomEnabled bool
	FullWidth        bool
	Transition       string
}

// Resolve computes the effective display attributes for a gallery against
// the global settings of its template. Each attribute resolves
// independently; the function is total and never fails. Callers rendering
// several galleries together must still call Resolve once per gallery, in
// particular so that FullWidth reflects each gallery's own override rather
// than any page-level notion of width.
func Resolve(global db.TemplateSetting, gallery db.Gallery) Effective {
	eff := Effective{
		Columns:          ClampColumns(global.Columns),
		LightboxEnabled:  global.LightboxEnabled,
		HoverZoomEnabled: global.HoverZoomEnabled,
		FullWidth:        global.FullWidth,
		Transition:       global.Transition,
	}
	if !ValidTransition(eff.Transition) {
		eff.Transition = TransitionNone
	}

	if gallery.ColumnsOverride != nil {
		eff.Columns = ClampColumns(*gallery.ColumnsOverride)
	}
	if gallery.LightboxOverride != nil {
		eff.LightboxEnabled = *gallery.LightboxOverride
	}
	if gallery.HoverZoomOverride != nil {
		eff.HoverZoomEnabled = *gallery.HoverZoomOverride
	}
	if gallery.FullWidthOverride != nil {
		eff.FullWidth = *gallery.FullWidthOverride
	}
	if gallery.TransitionOverride != nil && ValidTransition(*gallery.TransitionOverride) {
		eff.Transition = *gallery.TransitionOverride
	}

	return eff
}
