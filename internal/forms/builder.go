package forms

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/media"
)

var constructors = map[string]func() Form{
	"blog":        func() Form { return &BlogForm{} },
	"gear":        func() Form { return &GearForm{} },
	"pax":         func() Form { return &PaxForm{} },
	"fixed-date":  func() Form { return &FixedDateForm{} },
	"gallery":     func() Form { return &GalleryForm{} },
	"team":        func() Form { return &TeamForm{} },
	"technology":  func() Form { return &TechnologyForm{} },
	"video":       func() Form { return &VideoForm{} },
	"testimonial": func() Form { return &ReviewForm{} },
	"faq":         func() Form { return &FAQForm{} },
	"subcategory": func() Form { return &SubcategoryForm{} },
	"brand":       func() Form { return &BrandForm{} },
	"category":    func() Form { return &CategoryForm{} },
	"product":     func() Form { return &ProductForm{} },
}

// For returns an empty form for resource. Read-only resources have none.
func For(resource string) (Form, error) {
	mk, ok := constructors[resource]
	if !ok {
		return nil, fmt.Errorf("%w: no form for %q", domain.ErrNotSupported, resource)
	}
	return mk(), nil
}

// Input is a create/edit request as received from the dashboard.
type Input struct {
	Data   []byte // JSON object with the form fields
	Files  []Upload
	Remove []string
	Parent string
}

type Builder struct {
	v *Validator
}

func NewBuilder(v *Validator) *Builder {
	if v == nil {
		v = NewValidator()
	}
	return &Builder{v: v}
}

// Decode fills f from JSON, normalizes it and validates it.
func (b *Builder) Decode(data []byte, f Form) error {
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, f); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	f.Normalize()
	return b.v.Struct(f)
}

// Build validates in against the resource's form and returns the payload to
// send. saved is the entity being edited, nil on create. Nothing is sent
// when validation fails.
func (b *Builder) Build(res domain.Resource, in Input, saved domain.Row) (*Submission, error) {
	f, err := For(res.Name)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(in.Data)) > 0 {
		if err := json.Unmarshal(in.Data, f); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	if sc, ok := f.(Scoped); ok {
		sc.SetParent(in.Parent)
	}
	f.Normalize()
	if err := b.v.Struct(f); err != nil {
		return nil, err
	}

	if err := checkUploads(res, in.Files); err != nil {
		return nil, err
	}
	if ur, ok := f.(UploadRequirer); ok && saved == nil {
		sub := &Submission{Files: in.Files}
		for _, field := range ur.RequiredUploads() {
			if !sub.HasFile(field) {
				return nil, fieldError(field, "required")
			}
		}
	}

	fields, err := toMap(f)
	if err != nil {
		return nil, err
	}
	sub := &Submission{Fields: fields, Files: in.Files}
	if saved != nil {
		NewAssetTracker(res, saved).Apply(sub, in.Remove)
	}
	return sub, nil
}

func checkUploads(res domain.Resource, files []Upload) error {
	for _, f := range files {
		spec, ok := assetFor(res, f.Field)
		if !ok {
			return fieldError(f.Field, "unknown_upload")
		}
		if len(f.Data) > media.MaxUploadBytes {
			return fieldError(f.Field, "max_size")
		}
		if !spec.Multi && countField(files, f.Field) > 1 {
			return fieldError(f.Field, "single_file")
		}
	}
	return nil
}

func assetFor(res domain.Resource, field string) (domain.AssetSpec, bool) {
	for _, a := range res.Assets {
		if a.Field == field {
			return a, true
		}
	}
	return domain.AssetSpec{}, false
}

func countField(files []Upload, field string) int {
	n := 0
	for _, f := range files {
		if f.Field == field {
			n++
		}
	}
	return n
}

func toMap(f Form) (map[string]any, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
