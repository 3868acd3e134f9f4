package render

import (
	"fmt"
	"strings"

	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/paginate"
	"github.com/blacktop/ipa-archive/pkg/search"
)

// EntryValues returns the placeholder values for one catalog entry.
func EntryValues(e *catalog.Entry) Values {
	return Values{
		"IDX":      e.Index,
		"IMG":      e.ImagePath,
		"TITLE":    strings.ReplaceAll(e.DisplayTitle(), "<", "&lt;"),
		"VERSION":  e.Version,
		"BUNDLEID": e.BundleID,
		"MINOS":    catalog.FormatVersion(e.MinOS),
		"PLATFORM": catalog.FormatPlatforms(e.Platforms),
		"SIZE":     catalog.FormatSize(e.Size),
		"URLNAME":  e.FileName(),
		"URL":      catalog.EscapeURL(e.DownloadURL),
	}
}

// Renderer renders catalog entries and result pages into markup.
type Renderer struct {
	Store     *catalog.Store
	Templates *Templates
	PageSize  int
}

// NewRenderer creates a renderer using the default templates.
func NewRenderer(store *catalog.Store) *Renderer {
	return &Renderer{
		Store:     store,
		Templates: DefaultTemplates(Lenient),
		PageSize:  paginate.DefaultPageSize,
	}
}

// Entries renders t once per index.
func (r *Renderer) Entries(t *Template, indices []int) (string, error) {
	var b strings.Builder
	for _, idx := range indices {
		e, err := r.Store.Entry(idx)
		if err != nil {
			return "", err
		}
		out, err := t.Render(EntryValues(e))
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// ResultOptions tweak the result page.
type ResultOptions struct {
	// Unique selects the compact template used for de-duplicated results.
	Unique bool
	// PreviousSearch adds a link back to the search before the current one.
	PreviousSearch bool
}

// Results renders one page of results with its navigation.
func (r *Renderer) Results(results search.Results, page int, opts ResultOptions) (string, error) {
	p := paginate.Paginate(results, r.PageSize, page)

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Results: %d", p.Total)
	if opts.PreviousSearch {
		b.WriteString(` -- Go to: <a onclick="restoreSearch()">previous search</a>`)
	}
	b.WriteString("</h3>")
	if p.ShowControls() {
		b.WriteString(PaginationShort(p.Number, p.Count))
	}
	t := r.Templates.Entry
	if opts.Unique {
		t = r.Templates.Short
	}
	entries, err := r.Entries(t, p.Items)
	if err != nil {
		return "", err
	}
	b.WriteString(entries)
	if p.ShowControls() {
		b.WriteString(PaginationShort(p.Number, p.Count))
		b.WriteString(PaginationFull(p.Number, p.Count))
	}
	return b.String(), nil
}

// Random renders the single entry view with its actions.
func (r *Renderer) Random(idx int) (string, error) {
	entry, err := r.Entries(r.Templates.Full, []int{idx})
	if err != nil {
		return "", err
	}
	actions, err := r.Templates.RandomAction.Render(Values{"IDX": idx})
	if err != nil {
		return "", err
	}
	return "<h3>Random:</h3>" + entry + actions, nil
}

// PaginationShort renders the Prev / page / Next controls.
func PaginationShort(page, pages int) string {
	disabled := func(b bool) string {
		if b {
			return "disabled"
		}
		return ""
	}
	return fmt.Sprintf(`<div class="shortpage"><button onclick="p(%d)" %s>Prev</button><span>%d / %d</span><button onclick="p(%d)" %s>Next</button></div>`,
		page-1, disabled(page == 0), page+1, pages, page+1, disabled(page+1 == pages))
}

// PaginationFull renders a link for every page, the current one in bold.
func PaginationFull(page, pages int) string {
	var b strings.Builder
	b.WriteString(`<div id="pagination">Pages:`)
	for i := 0; i < pages; i++ {
		if i == page {
			fmt.Fprintf(&b, "\n<b>%d</b>", i+1)
		} else {
			fmt.Fprintf(&b, "\n<a onclick=\"p(%d)\">%d</a>", i, i+1)
		}
	}
	b.WriteString("</div>")
	return b.String()
}
