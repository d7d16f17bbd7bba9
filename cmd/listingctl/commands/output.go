package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

type listingView struct {
	ID           string  `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	Location     string  `json:"location" yaml:"location"`
	PropertyType string  `json:"propertyType" yaml:"propertyType"`
	Category     string  `json:"category" yaml:"category"`
	Price        float64 `json:"price" yaml:"price"`
}

type pageView struct {
	Mode        string        `json:"mode" yaml:"mode"`
	CurrentPage int           `json:"currentPage" yaml:"currentPage"`
	TotalPages  int           `json:"totalPages" yaml:"totalPages"`
	TotalCount  int           `json:"totalCount" yaml:"totalCount"`
	PageSize    int           `json:"pageSize" yaml:"pageSize"`
	Items       []listingView `json:"items" yaml:"items"`
}

type groupCountView struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

type groupView struct {
	Field  string           `json:"field" yaml:"field"`
	Groups []groupCountView `json:"groups" yaml:"groups"`
}

func newPageView(res domain.BrowseResult) pageView {
	view := pageView{
		Mode:        string(res.Mode),
		CurrentPage: res.Page.CurrentPage,
		TotalPages:  res.Page.TotalPages,
		TotalCount:  res.Page.TotalCount,
		PageSize:    res.Page.PageSize,
		Items:       make([]listingView, 0, len(res.Page.Items)),
	}
	for _, l := range res.Page.Items {
		view.Items = append(view.Items, listingView{
			ID:           l.ID,
			Title:        l.DisplayName(),
			Location:     l.Location,
			PropertyType: l.PropertyType,
			Category:     l.Category,
			Price:        l.Price,
		})
	}
	return view
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writePage(w io.Writer, format string, view pageView) error {
	if format != "table" {
		return writeStructured(w, format, view)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLOCATION\tTYPE\tCATEGORY\tPRICE")
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Title, item.Location, item.PropertyType, item.Category,
			strconv.FormatFloat(item.Price, 'f', -1, 64))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d, %d listings, mode %s\n",
		view.CurrentPage, view.TotalPages, view.TotalCount, view.Mode)
	return err
}

func writeGroups(w io.Writer, format string, views []groupView, scanned int) error {
	if format != "table" {
		return writeStructured(w, format, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range views {
		fmt.Fprintf(tw, "%s\n", strings.ToUpper(v.Field))
		for _, g := range v.Groups {
			fmt.Fprintf(tw, "  %s\t%d\n", g.Key, g.Count)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d listings scanned\n", scanned)
	return err
}
