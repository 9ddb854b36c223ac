// Package domain defines the core types for the adscout marketplace client.
package domain

import (
	"fmt"
	"time"
)

// PlaceholderImage is the sentinel image used when a listing has no photos.
const PlaceholderImage = "/placeholder.svg"

// PriceType represents how a listing's price is negotiated.
type PriceType string

// Price type constants.
const (
	PriceFixed      PriceType = "fixed"
	PriceNegotiable PriceType = "negotiable"
	PriceContact    PriceType = "contact"
)

// Condition represents the declared condition of a listed item.
type Condition string

// Condition constants.
const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionUsed    Condition = "used"
)

// Plan represents the listing's promotion plan.
type Plan string

// Plan constants.
const (
	PlanFree     Plan = "free"
	PlanFeatured Plan = "featured"
)

// CategoryRef is the compact category reference embedded in listings.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// CityRef is the compact city reference embedded in listings.
type CityRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StateRef is the compact state reference embedded in listings.
type StateRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Image is a single listing photo.
type Image struct {
	ID        int    `json:"id"`
	URL       string `json:"image"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"is_primary,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// Summary is the compact listing shape returned by list and search endpoints.
type Summary struct {
	ID           int         `json:"id"`
	Slug         string      `json:"slug"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	PriceType    PriceType   `json:"price_type"`
	DisplayPrice string      `json:"display_price"`
	Condition    Condition   `json:"condition,omitempty"`
	Category     CategoryRef `json:"category"`
	City         CityRef     `json:"city"`
	State        StateRef    `json:"state"`
	Plan         Plan        `json:"plan"`
	PrimaryImage *Image      `json:"primary_image,omitempty"`
	ViewCount    int         `json:"view_count"`
	TimeSince    string      `json:"time_since_posted"`
	Featured     bool        `json:"is_featured_active"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Location returns the "City, ST" display string for a listing.
func (s *Summary) Location() string {
	return fmt.Sprintf("%s, %s", s.City.Name, s.State.Code)
}

// Seller holds the owner contact fields of a detail record.
type Seller struct {
	ID            int    `json:"id"`
	FullName      string `json:"full_name"`
	Avatar        string `json:"avatar,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// Detail is the authoritative listing shape fetched on demand by slug.
// It carries everything in Summary plus the full gallery, owner contact
// fields, and engagement counts.
type Detail struct {
	ID           int         `json:"id"`
	Slug         string      `json:"slug"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	DisplayPrice string      `json:"display_price"`
	PriceType    PriceType   `json:"price_type"`
	Condition    Condition   `json:"condition,omitempty"`
	ContactPhone string      `json:"contact_phone,omitempty"`
	ContactEmail string      `json:"contact_email_display,omitempty"`
	HidePhone    bool        `json:"hide_phone"`
	Seller       Seller      `json:"user"`
	Category     CategoryRef `json:"category"`
	City         CityRef     `json:"city"`
	State        StateRef    `json:"state"`
	Plan         Plan        `json:"plan"`
	ViewCount    int         `json:"view_count"`
	UniqueViews  int         `json:"unique_view_count"`
	ContactCount int         `json:"contact_count"`
	FavoriteCnt  int         `json:"favorite_count"`
	Keywords     string      `json:"keywords,omitempty"`
	Images       []Image     `json:"images"`
	TimeSince    string      `json:"time_since_posted"`
	Featured     bool        `json:"is_featured_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// PrimaryImageURL returns the URL of the primary gallery image, the first
// image when none is flagged primary, or "" when the gallery is empty.
func (d *Detail) PrimaryImageURL() string {
	for i := range d.Images {
		if d.Images[i].IsPrimary {
			return d.Images[i].URL
		}
	}
	if len(d.Images) > 0 {
		return d.Images[0].URL
	}
	return ""
}

// Resolved is the display-ready projection of a single listing view. It is
// first built from the compact summary already on hand, with placeholder
// media and no contact data, and later replaced by a projection of the
// authoritative detail record. Authoritative reports which of the two a
// value is.
type Resolved struct {
	ID            int
	Slug          string
	Title         string
	Category      string
	Price         string
	Location      string
	Image         string
	Images        []string
	Views         int
	TimeAgo       string
	PostedAt      time.Time
	Featured      bool
	Description   string
	Condition     Condition
	Phone         string
	Email         string
	SellerName    string
	SellerAvatar  string
	Authoritative bool
}

// ResolvedFromSummary projects a compact summary into the display shape.
// Contact fields stay empty until the authoritative record arrives.
func ResolvedFromSummary(s *Summary) Resolved {
	image := PlaceholderImage
	if s.PrimaryImage != nil && s.PrimaryImage.URL != "" {
		image = s.PrimaryImage.URL
	}
	return Resolved{
		ID:          s.ID,
		Slug:        s.Slug,
		Title:       s.Title,
		Category:    s.Category.Name,
		Price:       s.DisplayPrice,
		Location:    s.Location(),
		Image:       image,
		Images:      []string{image},
		Views:       s.ViewCount,
		TimeAgo:     s.TimeSince,
		PostedAt:    s.CreatedAt,
		Featured:    s.Featured,
		Description: s.Description,
		Condition:   s.Condition,
	}
}

// ResolvedFromDetail projects the authoritative detail record into the
// display shape. The contact phone is suppressed when the owner opted to
// hide it.
func ResolvedFromDetail(d *Detail) Resolved {
	images := make([]string, 0, len(d.Images))
	for i := range d.Images {
		if d.Images[i].URL != "" {
			images = append(images, d.Images[i].URL)
		}
	}
	if len(images) == 0 {
		images = []string{PlaceholderImage}
	}

	primary := d.PrimaryImageURL()
	if primary == "" {
		primary = PlaceholderImage
	}

	phone := d.ContactPhone
	if d.HidePhone {
		phone = ""
	}
	email := d.ContactEmail
	if email == "" {
		email = d.Seller.Email
	}

	return Resolved{
		ID:            d.ID,
		Slug:          d.Slug,
		Title:         d.Title,
		Category:      d.Category.Name,
		Price:         d.DisplayPrice,
		Location:      fmt.Sprintf("%s, %s", d.City.Name, d.State.Code),
		Image:         primary,
		Images:        images,
		Views:         d.ViewCount,
		TimeAgo:       d.TimeSince,
		PostedAt:      d.CreatedAt,
		Featured:      d.Featured,
		Description:   d.Description,
		Condition:     d.Condition,
		Phone:         phone,
		Email:         email,
		SellerName:    d.Seller.FullName,
		SellerAvatar:  d.Seller.Avatar,
		Authoritative: true,
	}
}

// Page is the normalized paginated result shape. Every list endpoint,
// whatever envelope it answers with, is reduced to this.
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"total_count"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Category is a full reference-data category row.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	AdsCount    int       `json:"ads_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// City is a full reference-data city row.
type City struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StateID   int       `json:"state"`
	StateName string    `json:"state_name,omitempty"`
	StateCode string    `json:"state_code,omitempty"`
	IsMajor   bool      `json:"is_major"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// State is a full reference-data state row.
type State struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// DashboardStats is the aggregate snapshot polled by the dashboard view.
type DashboardStats struct {
	TotalAds      int       `json:"total_ads"`
	ActiveAds     int       `json:"active_ads"`
	PendingAds    int       `json:"pending_ads"`
	FeaturedAds   int       `json:"featured_ads"`
	TotalViews    int       `json:"total_views"`
	TotalContacts int       `json:"total_contacts"`
	GeneratedAt   time.Time `json:"generated_at"`
}
