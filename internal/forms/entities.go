package forms

import (
	"strings"
	"time"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/media"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/richtext"
)

const DateLayout = "2006-01-02"

// Form is a typed create/edit form for one resource.
type Form interface {
	// Normalize trims input, sanitizes HTML and fills derived fields.
	Normalize()
}

// Scoped forms carry the id of the parent they are created under.
type Scoped interface {
	SetParent(id string)
}

// UploadRequirer forms need a file before they can be created.
type UploadRequirer interface {
	RequiredUploads() []string
}

type BlogForm struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt,omitempty" validate:"max=500"`
	Description string `json:"description" validate:"richtext"`
	IsPublished bool   `json:"isPublished"`
}

func (f *BlogForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Excerpt = strings.TrimSpace(f.Excerpt)
	f.Slug = deriveSlug(f.Slug, f.Title)
	f.Description = richtext.Sanitize(f.Description)
}

type GearForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"richtext"`
	PackageID   string `json:"packageId" validate:"required"`
}

func (f *GearForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = richtext.Sanitize(f.Description)
}

func (f *GearForm) SetParent(id string) { f.PackageID = keepOr(f.PackageID, id) }

type PaxForm struct {
	Min       int     `json:"min" validate:"min=1"`
	Max       int     `json:"max" validate:"gtefield=Min"`
	Discount  float64 `json:"discount" validate:"min=0,max=100"`
	PackageID string  `json:"packageId" validate:"required"`
}

func (f *PaxForm) Normalize()          {}
func (f *PaxForm) SetParent(id string) { f.PackageID = keepOr(f.PackageID, id) }

type FixedDateForm struct {
	StartDate      string  `json:"startDate" validate:"required,date"`
	EndDate        string  `json:"endDate" validate:"required,date"`
	Status         string  `json:"status" validate:"required,oneof=Open Closed Booked"`
	NumberOfPerson int     `json:"numberOfPerson" validate:"min=1"`
	PricePerPerson float64 `json:"pricePerPerson" validate:"min=0"`
	PackageID      string  `json:"packageId" validate:"required"`
	// Duration in days fills EndDate when the admin leaves it empty.
	Duration int `json:"duration,omitempty" validate:"min=0"`

	Start time.Time `json:"-" form:"startDate"`
	End   time.Time `json:"-" form:"endDate" validate:"gtfield=Start"`
}

func (f *FixedDateForm) Normalize() {
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.Status = strings.TrimSpace(f.Status)
	f.Start, _ = time.Parse(DateLayout, f.StartDate)
	if f.EndDate == "" && f.Duration > 0 && !f.Start.IsZero() {
		f.EndDate = f.Start.AddDate(0, 0, f.Duration).Format(DateLayout)
	}
	f.End, _ = time.Parse(DateLayout, f.EndDate)
	f.Duration = 0
}

func (f *FixedDateForm) SetParent(id string) { f.PackageID = keepOr(f.PackageID, id) }

type GalleryForm struct {
	Caption   string `json:"caption,omitempty" validate:"max=200"`
	SortOrder int    `json:"sortOrder" validate:"min=0"`
	IsActive  bool   `json:"isActive"`
	PackageID string `json:"packageId" validate:"required"`
}

func (f *GalleryForm) Normalize()                { f.Caption = strings.TrimSpace(f.Caption) }
func (f *GalleryForm) SetParent(id string)       { f.PackageID = keepOr(f.PackageID, id) }
func (f *GalleryForm) RequiredUploads() []string { return []string{"image"} }

type TeamForm struct {
	Fullname    string `json:"fullname" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	CountryCode string `json:"countryCode,omitempty" validate:"omitempty,max=5"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
	IsLeader    bool   `json:"isLeader"`
	Description string `json:"description,omitempty" validate:"required_if=IsLeader true"`
	Facebook    string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram   string `json:"instagram,omitempty" validate:"omitempty,url"`
	Linkedin    string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Twitter     string `json:"twitter,omitempty" validate:"omitempty,url"`
}

func (f *TeamForm) Normalize() {
	f.Fullname = strings.TrimSpace(f.Fullname)
	f.Designation = strings.TrimSpace(f.Designation)
	f.CountryCode = strings.TrimSpace(f.CountryCode)
	f.PhoneNumber = strings.Join(strings.Fields(f.PhoneNumber), "")
	f.Description = richtext.Sanitize(f.Description)
	if richtext.IsBlank(f.Description) {
		f.Description = ""
	}
	for _, p := range []*string{&f.Facebook, &f.Instagram, &f.Linkedin, &f.Twitter} {
		*p = strings.TrimSpace(*p)
	}
}

type TechnologyForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"richtext"`
	SortOrder   int    `json:"sortOrder" validate:"min=0"`
}

func (f *TechnologyForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = richtext.Sanitize(f.Description)
}

type VideoForm struct {
	Title              string `json:"title" validate:"required"`
	ProductModelNumber string `json:"productModelNumber" validate:"required"`
	YoutubeURL         string `json:"youtubeUrl" form:"youtubeUrl" validate:"youtube"`
	YoutubeVideoID     string `json:"youtubeVideoId"`
	ProductID          string `json:"productId,omitempty"`
}

func (f *VideoForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.ProductModelNumber = strings.TrimSpace(f.ProductModelNumber)
	f.YoutubeURL = strings.TrimSpace(f.YoutubeURL)
	if f.YoutubeURL == "" && f.YoutubeVideoID != "" {
		f.YoutubeURL = f.YoutubeVideoID
	}
	f.YoutubeVideoID, _ = media.YouTubeID(f.YoutubeURL)
}

type ReviewForm struct {
	FullName  string `json:"fullName" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
	PackageID string `json:"packageId" validate:"required"`
	IsActive  bool   `json:"isActive"`
}

func (f *ReviewForm) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Comment = strings.TrimSpace(f.Comment)
}

func (f *ReviewForm) SetParent(id string) { f.PackageID = keepOr(f.PackageID, id) }

type FAQForm struct {
	Title       string `json:"title" validate:"required"`
	Description struct {
		Content string `json:"content" validate:"richtext"`
	} `json:"description"`
	IsActive bool `json:"isActive"`
}

func (f *FAQForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description.Content = richtext.Sanitize(f.Description.Content)
}

type SubcategoryForm struct {
	Title       string `json:"title" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId" validate:"required"`
}

func (f *SubcategoryForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = deriveSlug(f.Slug, f.Title)
	f.Description = richtext.Sanitize(f.Description)
}

func (f *SubcategoryForm) SetParent(id string) { f.CategoryID = keepOr(f.CategoryID, id) }

type BrandForm struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func (f *BrandForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Slug = deriveSlug(f.Slug, f.Name)
	f.Description = richtext.Sanitize(f.Description)
}

type CategoryForm struct {
	Title       string `json:"title" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	BrandID     string `json:"brandId" validate:"required"`
}

func (f *CategoryForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = deriveSlug(f.Slug, f.Title)
	f.Description = richtext.Sanitize(f.Description)
}

func (f *CategoryForm) SetParent(id string) { f.BrandID = keepOr(f.BrandID, id) }

type ProductForm struct {
	Name          string `json:"name" validate:"required"`
	Slug          string `json:"slug"`
	ModelNumber   string `json:"modelNumber" validate:"required"`
	Description   string `json:"description" validate:"richtext"`
	IsPublished   bool   `json:"isPublished"`
	SubcategoryID string `json:"subcategoryId" validate:"required"`
}

func (f *ProductForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.ModelNumber = strings.TrimSpace(f.ModelNumber)
	f.Slug = deriveSlug(f.Slug, f.Name)
	f.Description = richtext.Sanitize(f.Description)
}

func (f *ProductForm) SetParent(id string) { f.SubcategoryID = keepOr(f.SubcategoryID, id) }

type ChangePasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func (f *ChangePasswordForm) Normalize() {}

func deriveSlug(slug, from string) string {
	if s := richtext.Slugify(slug); s != "" {
		return s
	}
	return richtext.Slugify(from)
}

func keepOr(cur, id string) string {
	if strings.TrimSpace(cur) != "" {
		return cur
	}
	return strings.TrimSpace(id)
}
