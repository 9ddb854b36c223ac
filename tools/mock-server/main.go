// Command mock-server serves a small generated marketplace dataset with the
// same API shape adscout talks to. Useful for demos and manual testing
// without a real backend.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adscout/adscout/internal/api/middleware"
	"github.com/adscout/adscout/pkg/logger"
	domain "github.com/adscout/adscout/pkg/types"
)

func main() {
	var (
		addr     = flag.String("addr", ":8000", "listen address")
		listings = flag.Int("listings", 120, "number of listings to generate")
		seed     = flag.Int64("seed", 42, "dataset random seed")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.New(*logLevel, "text")
	data := generate(*seed, *listings)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/api/ads/ads/", data.listAds)
	e.GET("/api/ads/ads/featured/", data.featuredAds)
	e.GET("/api/ads/ads/my_ads/", data.myAds)
	e.GET("/api/ads/ads/:slug/", data.getAd)
	e.GET("/api/ads/dashboard/stats/", data.dashboardStats)
	e.GET("/api/content/categories/", data.listCategories)
	e.GET("/api/content/cities/", data.listCities)
	e.GET("/api/content/states/", data.listStates)

	log.Info("mock marketplace listening", "addr", *addr, "listings", len(data.ads))
	if err := e.Start(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}

type dataset struct {
	categories []domain.Category
	states     []domain.State
	cities     []domain.City
	ads        []domain.Detail
}

var (
	sampleTitles = []string{
		"Mountain bike", "Leather sofa", "Gaming laptop", "Electric guitar",
		"Dining table", "Road bike", "Espresso machine", "Bookshelf",
		"Power drill", "Winter tires", "Office chair", "Acoustic amp",
	}
	sampleConditions = []domain.Condition{
		domain.ConditionNew, domain.ConditionLikeNew, domain.ConditionUsed,
	}
)

func generate(seed int64, count int) *dataset {
	rng := rand.New(rand.NewSource(seed))

	d := &dataset{
		categories: []domain.Category{
			{ID: 1, Name: "Electronics", Slug: "electronics", SortOrder: 1, IsActive: true},
			{ID: 2, Name: "Furniture", Slug: "furniture", SortOrder: 2, IsActive: true},
			{ID: 3, Name: "Sports", Slug: "sports", SortOrder: 3, IsActive: true},
			{ID: 4, Name: "Vehicles", Slug: "vehicles", SortOrder: 4, IsActive: true},
		},
		states: []domain.State{
			{ID: 1, Name: "Illinois", Code: "IL", IsActive: true},
			{ID: 2, Name: "Ohio", Code: "OH", IsActive: true},
			{ID: 3, Name: "Texas", Code: "TX", IsActive: true},
		},
	}
	d.cities = []domain.City{
		{ID: 1, Name: "Springfield", StateID: 1, StateName: "Illinois", StateCode: "IL", IsMajor: true, IsActive: true},
		{ID: 2, Name: "Peoria", StateID: 1, StateName: "Illinois", StateCode: "IL", IsActive: true},
		{ID: 3, Name: "Columbus", StateID: 2, StateName: "Ohio", StateCode: "OH", IsMajor: true, IsActive: true},
		{ID: 4, Name: "Dayton", StateID: 2, StateName: "Ohio", StateCode: "OH", IsActive: true},
		{ID: 5, Name: "Austin", StateID: 3, StateName: "Texas", StateCode: "TX", IsMajor: true, IsActive: true},
	}

	now := time.Now()
	for i := 1; i <= count; i++ {
		title := sampleTitles[rng.Intn(len(sampleTitles))]
		city := d.cities[rng.Intn(len(d.cities))]
		category := d.categories[rng.Intn(len(d.categories))]
		price := float64(rng.Intn(95)*10 + 50)
		created := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)

		ad := domain.Detail{
			ID:           i,
			Slug:         fmt.Sprintf("%s-%d", slugify(title), i),
			Title:        title,
			Description:  fmt.Sprintf("%s in good shape, pickup in %s.", title, city.Name),
			DisplayPrice: fmt.Sprintf("$%.0f", price),
			PriceType:    domain.PriceFixed,
			Condition:    sampleConditions[rng.Intn(len(sampleConditions))],
			ContactPhone: fmt.Sprintf("555-01%02d", rng.Intn(100)),
			ContactEmail: fmt.Sprintf("seller%d@example.com", i),
			HidePhone:    rng.Intn(5) == 0,
			Seller: domain.Seller{
				ID:       100 + i%7,
				FullName: fmt.Sprintf("Seller %d", i%7),
			},
			Category:  domain.CategoryRef{ID: category.ID, Name: category.Name},
			City:      domain.CityRef{ID: city.ID, Name: city.Name},
			State:     domain.StateRef{ID: city.StateID, Name: city.StateName, Code: city.StateCode},
			Plan:      domain.PlanFree,
			ViewCount: rng.Intn(500),
			TimeSince: timeSince(created, now),
			Featured:  rng.Intn(8) == 0,
			CreatedAt: created,
			UpdatedAt: created,
			ExpiresAt: created.Add(60 * 24 * time.Hour),
		}
		if ad.Featured {
			ad.Plan = domain.PlanFeatured
		}
		if rng.Intn(4) != 0 {
			ad.Images = []domain.Image{{
				ID:        i,
				URL:       fmt.Sprintf("https://img.example.com/ads/%d/1.jpg", i),
				IsPrimary: true,
			}}
		}
		d.ads = append(d.ads, ad)

		d.categories[categoryIndex(d.categories, category.ID)].AdsCount++
	}
	return d
}

func categoryIndex(categories []domain.Category, id int) int {
	for i := range categories {
		if categories[i].ID == id {
			return i
		}
	}
	return 0
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

func timeSince(created, now time.Time) string {
	days := int(now.Sub(created).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func (d *dataset) summary(ad *domain.Detail) domain.Summary {
	price, _ := strconv.ParseFloat(strings.TrimPrefix(ad.DisplayPrice, "$"), 64)
	s := domain.Summary{
		ID:           ad.ID,
		Slug:         ad.Slug,
		Title:        ad.Title,
		Description:  ad.Description,
		Price:        price,
		DisplayPrice: ad.DisplayPrice,
		PriceType:    ad.PriceType,
		Condition:    ad.Condition,
		Category:     ad.Category,
		City:         ad.City,
		State:        ad.State,
		Plan:         ad.Plan,
		ViewCount:    ad.ViewCount,
		TimeSince:    ad.TimeSince,
		Featured:     ad.Featured,
		CreatedAt:    ad.CreatedAt,
	}
	if len(ad.Images) > 0 {
		s.PrimaryImage = &ad.Images[0]
	}
	return s
}

func (d *dataset) filtered(c echo.Context) []domain.Summary {
	search := strings.ToLower(c.QueryParam("search"))
	category, _ := strconv.Atoi(c.QueryParam("category"))
	city, _ := strconv.Atoi(c.QueryParam("city"))

	var out []domain.Summary
	for i := range d.ads {
		ad := &d.ads[i]
		if search != "" && !strings.Contains(strings.ToLower(ad.Title), search) &&
			!strings.Contains(strings.ToLower(ad.Description), search) {
			continue
		}
		if category > 0 && ad.Category.ID != category {
			continue
		}
		if city > 0 && ad.City.ID != city {
			continue
		}
		out = append(out, d.summary(ad))
	}

	switch c.QueryParam("sort_by") {
	case "oldest":
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case "alphabetical":
		sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case "price_low":
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price_high":
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

type envelope struct {
	Count       int              `json:"count"`
	Next        *string          `json:"next"`
	Previous    *string          `json:"previous"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	Results     []domain.Summary `json:"results"`
}

func paginate(c echo.Context, items []domain.Summary) envelope {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	env := envelope{
		Count:       len(items),
		TotalPages:  totalPages,
		CurrentPage: page,
		Results:     items[start:end],
	}
	if env.Results == nil {
		env.Results = []domain.Summary{}
	}
	if page < totalPages {
		next := pageURL(c, page+1)
		env.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		env.Previous = &prev
	}
	return env
}

func pageURL(c echo.Context, page int) string {
	q := c.Request().URL.Query()
	q.Set("page", strconv.Itoa(page))
	return c.Request().URL.Path + "?" + q.Encode()
}

func (d *dataset) listAds(c echo.Context) error {
	return c.JSON(http.StatusOK, paginate(c, d.filtered(c)))
}

// featuredAds answers with a bare array, the way the real featured endpoint
// does.
func (d *dataset) featuredAds(c echo.Context) error {
	var out []domain.Summary
	for _, s := range d.filtered(c) {
		if s.Featured {
			out = append(out, s)
		}
	}
	if out == nil {
		out = []domain.Summary{}
	}
	return c.JSON(http.StatusOK, out)
}

func (d *dataset) myAds(c echo.Context) error {
	if c.Request().Header.Get("Authorization") == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"detail": "Authentication credentials were not provided.",
		})
	}
	// every generated ad of seller 0 belongs to the caller
	var mine []domain.Summary
	for i := range d.ads {
		if d.ads[i].Seller.ID == 100 {
			mine = append(mine, d.summary(&d.ads[i]))
		}
	}
	return c.JSON(http.StatusOK, paginate(c, mine))
}

func (d *dataset) getAd(c echo.Context) error {
	slug := c.Param("slug")
	for i := range d.ads {
		if d.ads[i].Slug == slug {
			return c.JSON(http.StatusOK, d.ads[i])
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (d *dataset) dashboardStats(c echo.Context) error {
	stats := domain.DashboardStats{GeneratedAt: time.Now()}
	for i := range d.ads {
		stats.TotalAds++
		stats.ActiveAds++
		if d.ads[i].Featured {
			stats.FeaturedAds++
		}
		stats.TotalViews += d.ads[i].ViewCount
		stats.TotalContacts += d.ads[i].ContactCount
	}
	return c.JSON(http.StatusOK, stats)
}

func (d *dataset) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, d.categories)
}

func (d *dataset) listCities(c echo.Context) error {
	state := strings.ToUpper(c.QueryParam("state"))
	if state == "" {
		return c.JSON(http.StatusOK, d.cities)
	}
	var out []domain.City
	for _, city := range d.cities {
		if city.StateCode == state {
			out = append(out, city)
		}
	}
	if out == nil {
		out = []domain.City{}
	}
	return c.JSON(http.StatusOK, out)
}

func (d *dataset) listStates(c echo.Context) error {
	return c.JSON(http.StatusOK, d.states)
}
