package override

import (
	"testing"

	"github.com/framewall/internal/db"
)

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestResolveUsesGlobalWhenNoOverrides(t *testing.T) {
	global := db.TemplateSetting{
		Template:         "basic-grid",
		Columns:          4,
		LightboxEnabled:  true,
		HoverZoomEnabled: true,
		FullWidth:        false,
		Transition:       TransitionSlide,
	}

	eff := Resolve(global, db.Gallery{Name: "Plain"})
	if eff.Columns != 4 || !eff.LightboxEnabled || !eff.HoverZoomEnabled || eff.FullWidth {
		t.Fatalf("expected global values, got %+v", eff)
	}
	if eff.Transition != TransitionSlide {
		t.Fatalf("expected slide, got %s", eff.Transition)
	}
}

func TestResolveOverridesWin(t *testing.T) {
	global := db.TemplateSetting{
		Template:         "basic-grid",
		Columns:          2,
		LightboxEnabled:  true,
		HoverZoomEnabled: false,
		FullWidth:        false,
		Transition:       TransitionNone,
	}
	gallery := db.Gallery{
		Name:              "Overridden",
		ColumnsOverride:   intPtr(5),
		LightboxOverride:  boolPtr(false),
		HoverZoomOverride: boolPtr(true),
		FullWidthOverride: boolPtr(true),
	}

	eff := Resolve(global, gallery)
	if eff.Columns != 5 {
		t.Fatalf("expected columns 5, got %d", eff.Columns)
	}
	if eff.LightboxEnabled {
		t.Fatalf("explicit false override must beat global true")
	}
	if !eff.HoverZoomEnabled || !eff.FullWidth {
		t.Fatalf("expected hover zoom and full width on, got %+v", eff)
	}
	if eff.Transition != TransitionNone {
		t.Fatalf("expected inherited transition, got %s", eff.Transition)
	}
}

func TestResolveClampsColumnsFromEitherSource(t *testing.T) {
	global := db.TemplateSetting{Template: "basic-grid", Columns: 99, Transition: TransitionNone}

	if eff := Resolve(global, db.Gallery{}); eff.Columns != MaxColumns {
		t.Fatalf("out-of-range global columns should clamp, got %d", eff.Columns)
	}

	gallery := db.Gallery{ColumnsOverride: intPtr(0)}
	if eff := Resolve(global, gallery); eff.Columns != MinColumns {
		t.Fatalf("out-of-range override should clamp, got %d", eff.Columns)
	}
}

func TestResolveIgnoresUnknownTransitions(t *testing.T) {
	global := db.TemplateSetting{Template: "basic-grid", Columns: 4, Transition: "wobble"}
	gallery := db.Gallery{TransitionOverride: strPtr("sparkle")}

	if eff := Resolve(global, gallery); eff.Transition != TransitionNone {
		t.Fatalf("unknown transitions should degrade to none, got %s", eff.Transition)
	}

	gallery.TransitionOverride = strPtr(TransitionImplode)
	if eff := Resolve(global, gallery); eff.Transition != TransitionImplode {
		t.Fatalf("valid override should win, got %s", eff.Transition)
	}
}
