package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type BulkStyle int

const (
	// BulkArray sends {"ids": ["a","b"]}.
	BulkArray BulkStyle = iota
	// BulkJoined sends {"ids": "a,b"}; some backend endpoints only accept this form.
	BulkJoined
	BulkNone
)

type ListStyle int

const (
	ListDirect  ListStyle = iota // /path or /path/{parent}
	ListPackage                  // /path/package/{parent}
)

type AssetKind int

const (
	AssetURL AssetKind = iota
	AssetMediaID
)

// AssetSpec describes a file-backed field of an entity.
type AssetSpec struct {
	Field  string // multipart field name used on upload
	Path   string // where the saved value lives in the entity
	Kind   AssetKind
	Multi  bool
	IDPath string // id key inside each media object (AssetMediaID only)
	// RemovalField carries cleared saved values on edit: urls go to
	// removeUrls, media ids to removedMediaIds.
	RemovalField string
}

type Column struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Path       string `json:"-"`
	Filterable bool   `json:"filterable"`
}

type Resource struct {
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	Path         string      `json:"-"`
	Parent       string      `json:"parent,omitempty"`
	ListStyle    ListStyle   `json:"-"`
	IDField      string      `json:"idField"`
	SoftDelete   bool        `json:"softDelete"`
	Bulk         BulkStyle   `json:"-"`
	Reorderable  bool        `json:"reorderable"`
	ReadOnly     bool        `json:"readOnly"`
	Moderated    bool        `json:"moderated"`
	Assets       []AssetSpec `json:"-"`
	Columns      []Column    `json:"columns"`
	FilterColumn string      `json:"filterColumn,omitempty"`
}

func (r Resource) Scoped() bool { return r.Parent != "" }

func (r Resource) ListPath(parent string, deleted bool) string {
	if deleted {
		return r.Path + "/deleted"
	}
	if !r.Scoped() || parent == "" {
		return r.Path
	}
	if r.ListStyle == ListPackage {
		return r.Path + "/package/" + url.PathEscape(parent)
	}
	return r.Path + "/" + url.PathEscape(parent)
}

func (r Resource) ItemPath(id string) string { return r.Path + "/" + url.PathEscape(id) }

func (r Resource) CreatePath(parent string) string {
	if r.Scoped() && parent != "" {
		return r.Path + "/" + url.PathEscape(parent)
	}
	return r.Path
}

func (r Resource) BulkDeletePath() string  { return r.Path + "/bulk" }
func (r Resource) BulkRecoverPath() string { return r.Path + "/bulk/recover" }
func (r Resource) ReorderPath() string     { return r.Path + "/reorder" }

// BulkPayload encodes ids the way this resource's bulk endpoint expects.
func (r Resource) BulkPayload(ids []string) map[string]any {
	if r.Bulk == BulkJoined {
		return map[string]any{"ids": strings.Join(ids, ",")}
	}
	return map[string]any{"ids": ids}
}

const (
	removeURLs  = "removeUrls"
	removeMedia = "removedMediaIds"
)

var titleColumn = Column{Key: "title", Title: "Title", Path: "title", Filterable: true}

var registry = map[string]Resource{
	"blog": {
		Name: "blog", Title: "Blogs", Path: "/blog", IDField: "id", Bulk: BulkArray,
		Assets: []AssetSpec{
			{Field: "coverImage", Path: "coverImage", Kind: AssetURL, RemovalField: removeURLs},
			{Field: "mediaUrls", Path: "mediaAssets", Kind: AssetMediaID, Multi: true, IDPath: "id", RemovalField: removeMedia},
		},
		Columns: []Column{titleColumn, {Key: "slug", Title: "Slug", Path: "slug"},
			{Key: "isPublished", Title: "Published", Path: "isPublished"}},
		FilterColumn: "title",
	},
	"gear": {
		Name: "gear", Title: "Gear", Path: "/gear", Parent: "package", IDField: "_id", Bulk: BulkArray,
		Columns: []Column{titleColumn}, FilterColumn: "title",
	},
	"pax": {
		Name: "pax", Title: "Pax pricing", Path: "/pax", Parent: "package", IDField: "_id", Bulk: BulkArray,
		Columns: []Column{
			{Key: "min", Title: "Min", Path: "min"},
			{Key: "max", Title: "Max", Path: "max"},
			{Key: "discount", Title: "Discount", Path: "discount"},
		},
	},
	"fixed-date": {
		Name: "fixed-date", Title: "Dates & pricing", Path: "/fixed-date", Parent: "package", IDField: "_id", Bulk: BulkJoined,
		Columns: []Column{
			{Key: "startDate", Title: "Start", Path: "startDate"},
			{Key: "endDate", Title: "End", Path: "endDate"},
			{Key: "status", Title: "Status", Path: "status", Filterable: true},
			{Key: "pricePerPerson", Title: "Price", Path: "pricePerPerson"},
		},
		FilterColumn: "status",
	},
	"gallery": {
		Name: "gallery", Title: "Gallery", Path: "/gallery", Parent: "package", ListStyle: ListPackage, IDField: "_id", Bulk: BulkArray,
		Assets: []AssetSpec{{Field: "image", Path: "imageUrl", Kind: AssetURL, RemovalField: removeURLs}},
		Columns: []Column{
			{Key: "caption", Title: "Caption", Path: "caption", Filterable: true},
			{Key: "imageUrl", Title: "Image", Path: "imageUrl"},
			{Key: "sortOrder", Title: "Order", Path: "sortOrder"},
			{Key: "isActive", Title: "Active", Path: "isActive"},
		},
		FilterColumn: "caption",
	},
	"team": {
		Name: "team", Title: "Team members", Path: "/team", IDField: "id", Bulk: BulkArray,
		Assets: []AssetSpec{{Field: "image", Path: "image", Kind: AssetURL, RemovalField: removeURLs}},
		Columns: []Column{
			{Key: "fullname", Title: "Name", Path: "fullname", Filterable: true},
			{Key: "designation", Title: "Designation", Path: "designation", Filterable: true},
			{Key: "isLeader", Title: "Leader", Path: "isLeader"},
		},
		FilterColumn: "fullname",
	},
	"technology": {
		Name: "technology", Title: "Technologies", Path: "/technology", IDField: "id", SoftDelete: true, Bulk: BulkArray, Reorderable: true,
		Assets: []AssetSpec{
			{Field: "coverImage", Path: "coverImage", Kind: AssetURL, RemovalField: removeURLs},
			{Field: "bannerUrls", Path: "bannerUrls", Kind: AssetURL, Multi: true, RemovalField: removeURLs},
		},
		Columns:      []Column{titleColumn, {Key: "sortOrder", Title: "Order", Path: "sortOrder"}},
		FilterColumn: "title",
	},
	"video": {
		Name: "video", Title: "Videos", Path: "/video", IDField: "id", SoftDelete: true, Bulk: BulkArray,
		Columns: []Column{titleColumn,
			{Key: "productModelNumber", Title: "Model", Path: "productModelNumber", Filterable: true},
			{Key: "youtubeVideoId", Title: "YouTube", Path: "youtubeVideoId"}},
		FilterColumn: "title",
	},
	"testimonial": {
		Name: "testimonial", Title: "Reviews", Path: "/testimonial", Parent: "package", IDField: "_id", Bulk: BulkArray, Moderated: true,
		Columns: []Column{
			{Key: "fullName", Title: "Name", Path: "fullName", Filterable: true},
			{Key: "rating", Title: "Rating", Path: "rating"},
			{Key: "isActive", Title: "Active", Path: "isActive"},
		},
		FilterColumn: "fullName",
	},
	"private-trip": {
		Name: "private-trip", Title: "Private trip inquiries", Path: "/private-trip", IDField: "_id", Bulk: BulkJoined, ReadOnly: true,
		Columns: []Column{
			{Key: "leadTravellerName", Title: "Lead traveller", Path: "leadTravellerName", Filterable: true},
			{Key: "email", Title: "Email", Path: "email", Filterable: true},
			{Key: "country", Title: "Country", Path: "country", Filterable: true},
			{Key: "date", Title: "Date", Path: "date"},
			{Key: "numberOfTraveller", Title: "Travellers", Path: "numberOfTraveller"},
		},
		FilterColumn: "leadTravellerName",
	},
	"faq": {
		Name: "faq", Title: "FAQs", Path: "/faq", IDField: "id", SoftDelete: true, Bulk: BulkArray,
		Columns:      []Column{titleColumn, {Key: "isActive", Title: "Active", Path: "isActive"}},
		FilterColumn: "title",
	},
	"subcategory": {
		Name: "subcategory", Title: "Subcategories", Path: "/subcategory", Parent: "category", IDField: "id", SoftDelete: true, Bulk: BulkArray,
		Assets:       []AssetSpec{{Field: "coverImage", Path: "coverImage", Kind: AssetURL, RemovalField: removeURLs}},
		Columns:      []Column{titleColumn, {Key: "slug", Title: "Slug", Path: "slug"}},
		FilterColumn: "title",
	},
	"brand": {
		Name: "brand", Title: "Brands", Path: "/brand", IDField: "id", SoftDelete: true, Bulk: BulkArray,
		Assets:       []AssetSpec{{Field: "logo", Path: "logoUrl", Kind: AssetURL, RemovalField: removeURLs}},
		Columns:      []Column{{Key: "name", Title: "Name", Path: "name", Filterable: true}, {Key: "slug", Title: "Slug", Path: "slug"}},
		FilterColumn: "name",
	},
	"category": {
		Name: "category", Title: "Categories", Path: "/category", Parent: "brand", IDField: "id", SoftDelete: true, Bulk: BulkArray,
		Assets:       []AssetSpec{{Field: "coverImage", Path: "coverImage", Kind: AssetURL, RemovalField: removeURLs}},
		Columns:      []Column{titleColumn, {Key: "slug", Title: "Slug", Path: "slug"}},
		FilterColumn: "title",
	},
	"product": {
		Name: "product", Title: "Products", Path: "/product", Parent: "subcategory", IDField: "id", SoftDelete: true, Bulk: BulkArray,
		Assets: []AssetSpec{{Field: "coverImage", Path: "coverImage", Kind: AssetURL, RemovalField: removeURLs}},
		Columns: []Column{{Key: "name", Title: "Name", Path: "name", Filterable: true},
			{Key: "modelNumber", Title: "Model", Path: "modelNumber", Filterable: true},
			{Key: "isPublished", Title: "Published", Path: "isPublished"}},
		FilterColumn: "name",
	},
}

func LookupResource(name string) (Resource, error) {
	r, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Resource{}, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return r, nil
}

// Resources returns every registered resource ordered by name.
func Resources() []Resource {
	out := make([]Resource, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ColumnByKey returns the column named key, if the resource has one.
func (r Resource) ColumnByKey(key string) (Column, bool) {
	for _, c := range r.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
