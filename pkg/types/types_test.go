package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary_Location(t *testing.T) {
	t.Parallel()

	s := &Summary{
		City:  CityRef{Name: "Springfield"},
		State: StateRef{Code: "IL"},
	}
	assert.Equal(t, "Springfield, IL", s.Location())
}

func TestDetail_PrimaryImageURL(t *testing.T) {
	t.Parallel()

	d := &Detail{Images: []Image{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsPrimary: true},
	}}
	assert.Equal(t, "b.jpg", d.PrimaryImageURL())

	d = &Detail{Images: []Image{{URL: "a.jpg"}, {URL: "b.jpg"}}}
	assert.Equal(t, "a.jpg", d.PrimaryImageURL(), "first image when none flagged primary")

	d = &Detail{}
	assert.Equal(t, "", d.PrimaryImageURL())
}

func TestResolvedFromSummary(t *testing.T) {
	t.Parallel()

	s := &Summary{
		ID:           7,
		Slug:         "bike-7",
		Title:        "Bike",
		DisplayPrice: "$250",
		Category:     CategoryRef{Name: "Sports"},
		City:         CityRef{Name: "Springfield"},
		State:        StateRef{Code: "IL"},
		ViewCount:    41,
	}

	r := ResolvedFromSummary(s)
	assert.False(t, r.Authoritative)
	assert.Equal(t, "Springfield, IL", r.Location)
	assert.Equal(t, PlaceholderImage, r.Image, "no photo falls back to the placeholder")
	assert.Equal(t, []string{PlaceholderImage}, r.Images)
	assert.Empty(t, r.Phone)
	assert.Empty(t, r.Email)

	s.PrimaryImage = &Image{URL: "a.jpg"}
	r = ResolvedFromSummary(s)
	assert.Equal(t, "a.jpg", r.Image)
}

func TestResolvedFromDetail_HidePhone(t *testing.T) {
	t.Parallel()

	d := &Detail{
		ContactPhone: "555-0142",
		HidePhone:    true,
	}
	assert.Empty(t, ResolvedFromDetail(d).Phone)

	d.HidePhone = false
	assert.Equal(t, "555-0142", ResolvedFromDetail(d).Phone)
}

func TestResolvedFromDetail_EmailFallsBackToSeller(t *testing.T) {
	t.Parallel()

	d := &Detail{Seller: Seller{Email: "owner@example.com"}}
	assert.Equal(t, "owner@example.com", ResolvedFromDetail(d).Email)

	d.ContactEmail = "listing@example.com"
	assert.Equal(t, "listing@example.com", ResolvedFromDetail(d).Email)
}

func TestResolvedFromDetail_EmptyGallery(t *testing.T) {
	t.Parallel()

	r := ResolvedFromDetail(&Detail{})
	assert.Equal(t, PlaceholderImage, r.Image)
	assert.Equal(t, []string{PlaceholderImage}, r.Images)
	assert.True(t, r.Authoritative)
}
