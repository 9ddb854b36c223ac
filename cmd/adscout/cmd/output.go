package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/adscout/adscout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printAdsPage(page *domain.Page[domain.Summary]) error {
	fmt.Printf("Page %d of %d (%d listings)\n\n",
		page.CurrentPage, page.TotalPages, page.TotalCount)

	tw := newTabWriter(os.Stdout)
	tw.writef("SLUG\tTITLE\tPRICE\tCATEGORY\tLOCATION\tVIEWS\tPOSTED\n")
	for i := range page.Items {
		s := &page.Items[i]
		title := truncate(s.Title, 40)
		if s.Featured {
			title += " *"
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.Slug,
			title,
			s.DisplayPrice,
			s.Category.Name,
			s.Location(),
			s.ViewCount,
			s.TimeSince,
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	if page.HasNext {
		fmt.Printf("\nMore results: --page %d\n", page.CurrentPage+1)
	}
	return nil
}

func printAdDetail(r *domain.Resolved) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Title:\t%s\n", r.Title)
	tw.writef("Price:\t%s\n", r.Price)
	tw.writef("Category:\t%s\n", r.Category)
	tw.writef("Location:\t%s\n", r.Location)
	if r.Condition != "" {
		tw.writef("Condition:\t%s\n", r.Condition)
	}
	tw.writef("Views:\t%d\n", r.Views)
	tw.writef("Posted:\t%s\n", r.TimeAgo)
	tw.writef("Featured:\t%v\n", r.Featured)
	if r.SellerName != "" {
		tw.writef("Seller:\t%s\n", r.SellerName)
	}
	if r.Phone != "" {
		tw.writef("Phone:\t%s\n", r.Phone)
	}
	if r.Email != "" {
		tw.writef("Email:\t%s\n", r.Email)
	}
	for i, url := range r.Images {
		if url == domain.PlaceholderImage {
			continue
		}
		tw.writef("Image %d:\t%s\n", i+1, url)
	}
	if r.Description != "" {
		tw.writef("\n%s\n", r.Description)
	}
	return tw.finish()
}

func printCategoriesTable(categories []domain.Category) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tSLUG\tADS\n")
	for i := range categories {
		tw.writef("%d\t%s\t%s\t%d\n",
			categories[i].ID,
			categories[i].Name,
			categories[i].Slug,
			categories[i].AdsCount,
		)
	}
	return tw.finish()
}

func printCitiesTable(cities []domain.City) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tSTATE\tMAJOR\n")
	for i := range cities {
		tw.writef("%d\t%s\t%s\t%v\n",
			cities[i].ID,
			cities[i].Name,
			cities[i].StateCode,
			cities[i].IsMajor,
		)
	}
	return tw.finish()
}

func printStatesTable(states []domain.State) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tCODE\tNAME\n")
	for i := range states {
		tw.writef("%d\t%s\t%s\n",
			states[i].ID,
			states[i].Code,
			states[i].Name,
		)
	}
	return tw.finish()
}

func printDashboardStats(s *domain.DashboardStats) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Total ads:\t%d\n", s.TotalAds)
	tw.writef("Active:\t%d\n", s.ActiveAds)
	tw.writef("Pending:\t%d\n", s.PendingAds)
	tw.writef("Featured:\t%d\n", s.FeaturedAds)
	tw.writef("Views:\t%d\n", s.TotalViews)
	tw.writef("Contacts:\t%d\n", s.TotalContacts)
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
