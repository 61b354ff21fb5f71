package forms

import (
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// AssetTracker remembers the assets an entity had when the edit form opened,
// so clearing a preview can be told to the backend explicitly.
type AssetTracker struct {
	res   domain.Resource
	saved map[string][]string // asset field -> saved urls or media ids
}

func NewAssetTracker(res domain.Resource, entity domain.Row) *AssetTracker {
	t := &AssetTracker{res: res, saved: map[string][]string{}}
	if entity == nil {
		return t
	}
	for _, a := range res.Assets {
		t.saved[a.Field] = savedValues(entity.Lookup(a.Path), a)
	}
	return t
}

// Apply records removals into sub. remove holds asset field names (clear every
// saved value of that field) or individual saved urls/ids. A single asset that
// got a replacement upload sends only the new file.
func (t *AssetTracker) Apply(sub *Submission, remove []string) {
	if len(remove) == 0 {
		return
	}
	for _, a := range t.res.Assets {
		saved := t.saved[a.Field]
		if len(saved) == 0 || a.RemovalField == "" {
			continue
		}
		var gone []string
		if contains(remove, a.Field) {
			gone = saved
		} else {
			for _, v := range saved {
				if contains(remove, v) {
					gone = append(gone, v)
				}
			}
		}
		if len(gone) == 0 {
			continue
		}
		if !a.Multi && sub.HasFile(a.Field) {
			continue
		}
		sub.addRemoved(a.RemovalField, gone...)
		// the stale value must not travel back with the update
		if !a.Multi {
			delete(sub.Fields, a.Path)
			delete(sub.Fields, a.Field)
		}
	}
}

func savedValues(v any, a domain.AssetSpec) []string {
	var out []string
	add := func(x any) {
		switch t := x.(type) {
		case string:
			if t != "" {
				out = append(out, t)
			}
		case map[string]any:
			key := a.IDPath
			if a.Kind == domain.AssetURL || key == "" {
				key = "url"
				if a.Kind == domain.AssetMediaID {
					key = "id"
				}
			}
			if s := domain.Row(t).ID(key); s != "" && a.Kind == domain.AssetMediaID {
				out = append(out, s)
			} else if s, ok := t[key].(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	switch t := v.(type) {
	case []any:
		for _, x := range t {
			add(x)
		}
	default:
		add(t)
	}
	return out
}
