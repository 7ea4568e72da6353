package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/cargo-manager/internal/jobs"
	"github.com/ytget/cargo-manager/internal/model"
	"github.com/ytget/cargo-manager/internal/registry"
)

// searchPage is the state of the Online Search tab
type searchPage struct {
	query    string
	results  *model.ResultSet
	rows     []model.Crate // results in display order
	selected int
	order    registry.Order

	entry      *widget.Entry
	spinner    *widget.ProgressBarInfinite
	status     *widget.Label
	table      *widget.Table
	sortSelect *widget.Select
	installBtn *widget.Button
}

// Result table columns
const (
	colPackage = iota
	colDescription
	colVersion
	colDownloads
	columnCount
)

func (ui *RootUI) buildSearchPage() fyne.CanvasObject {
	p := &ui.searchTab
	p.selected = -1

	p.entry = widget.NewEntry()
	p.entry.SetPlaceHolder(ui.t(KeySearchPlaceholder))
	p.entry.SetText(p.query)
	p.entry.OnSubmitted = ui.onSearchSubmitted

	p.spinner = widget.NewProgressBarInfinite()
	if !ui.dispatcher.Pending() {
		p.spinner.Hide()
	}

	p.status = widget.NewLabel("")
	p.status.Truncation = fyne.TextTruncateEllipsis

	orders := make([]string, 0, len(registry.Orders()))
	for _, o := range registry.Orders() {
		orders = append(orders, string(o))
	}
	p.sortSelect = widget.NewSelect(orders, func(s string) {
		order, err := registry.ParseOrder(s)
		if err != nil {
			return
		}
		p.order = order
		ui.settings.SetSearchOrder(order)
		ui.rankResults()
	})
	if p.order == "" {
		p.order = registry.OrderRelevance
	}
	p.sortSelect.SetSelected(string(p.order))

	p.installBtn = widget.NewButton(ui.t(KeyInstall), ui.onInstallSelected)
	p.installBtn.Importance = widget.HighImportance
	p.installBtn.Disable()

	p.table = widget.NewTableWithHeaders(
		func() (int, int) {
			return len(p.rows), columnCount
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row < 0 || id.Row >= len(p.rows) {
				label.SetText("")
				return
			}
			label.SetText(cellText(p.rows[id.Row], id.Col))
		},
	)
	p.table.ShowHeaderColumn = false
	p.table.CreateHeader = func() fyne.CanvasObject {
		l := widget.NewLabel("")
		l.TextStyle = fyne.TextStyle{Bold: true}
		return l
	}
	p.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		obj.(*widget.Label).SetText(ui.columnTitle(id.Col))
	}
	p.table.SetColumnWidth(colPackage, ColumnPackageWidth)
	p.table.SetColumnWidth(colDescription, ColumnDescriptionWidth)
	p.table.SetColumnWidth(colVersion, ColumnVersionWidth)
	p.table.SetColumnWidth(colDownloads, ColumnDownloadsWidth)
	p.table.OnSelected = func(id widget.TableCellID) {
		p.selected = id.Row
		if id.Row >= 0 && id.Row < len(p.rows) {
			p.installBtn.Enable()
		}
	}
	p.table.OnUnselected = func(widget.TableCellID) {
		p.selected = -1
		p.installBtn.Disable()
	}

	ui.updateSearchStatus()

	searchRow := container.NewBorder(nil, nil, nil, p.installBtn, p.entry)
	sortRow := container.NewBorder(nil, nil, widget.NewLabel(ui.t(KeySortBy)), nil, p.sortSelect)
	top := container.NewVBox(searchRow, container.NewBorder(nil, nil, nil, sortRow, p.status), p.spinner)

	return container.NewBorder(top, nil, nil, nil, p.table)
}

func (ui *RootUI) columnTitle(col int) string {
	switch col {
	case colPackage:
		return ui.t(KeyColumnPackage)
	case colDescription:
		return ui.t(KeyColumnDescription)
	case colVersion:
		return ui.t(KeyColumnVersion)
	case colDownloads:
		return ui.t(KeyColumnDownloads)
	}
	return ""
}

// cellText returns the text of one result table cell
func cellText(c model.Crate, col int) string {
	switch col {
	case colPackage:
		return c.Name
	case colDescription:
		return c.DisplayDescription()
	case colVersion:
		return c.MaxVersion
	case colDownloads:
		return formatCount(c.Downloads)
	}
	return ""
}

// formatCount renders a download counter with thousands separators
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// onSearchSubmitted hands the query to the dispatcher; the result arrives
// later through pollSearch.
func (ui *RootUI) onSearchSubmitted(query string) {
	p := &ui.searchTab
	p.query = strings.TrimSpace(query)

	gen := ui.dispatcher.Submit(p.query)
	log.Printf("search: submitted %q (generation %d)", p.query, gen)

	p.spinner.Show()
	p.status.SetText(ui.t(KeySearching))
	ui.showNotification(ui.t(KeySearching), true)
}

// pollSearch runs on the UI goroutine whenever a worker signals a result
func (ui *RootUI) pollSearch() {
	res, ok := ui.dispatcher.Poll()
	if !ok {
		return
	}
	p := &ui.searchTab

	if !ui.dispatcher.Pending() {
		p.spinner.Hide()
		ui.hideNotification()
	}

	if res.Err != nil {
		log.Printf("search: %v", res.Err)
		p.status.SetText(ui.t(KeySearchFailed))
		ui.showNotification(ui.t(KeySearchFailed)+": "+res.Err.Error(), false)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.t(KeySearchFailed), res.Err), ui.window)
		return
	}

	p.results = res.Results
	ui.rankResults()
}

// rankResults reorders the current result set and refreshes the table
func (ui *RootUI) rankResults() {
	p := &ui.searchTab
	if p.table == nil {
		return
	}

	p.rows = nil
	if p.results != nil {
		p.rows = registry.Rank(p.results.Crates, p.results.Query, p.order)
	}
	p.selected = -1
	p.table.UnselectAll()
	p.installBtn.Disable()
	p.table.Refresh()
	p.table.ScrollToTop()
	ui.updateSearchStatus()
}

func (ui *RootUI) updateSearchStatus() {
	p := &ui.searchTab
	switch {
	case ui.dispatcher.Pending():
		p.status.SetText(ui.t(KeySearching))
	case p.results == nil:
		p.status.SetText("")
	case p.results.IsEmpty():
		p.status.SetText(ui.t(KeyNoResults))
	default:
		p.status.SetText(fmt.Sprintf(ui.t(KeyResultsFound), p.results.Len(), p.results.Total))
	}
}

// onInstallSelected installs the selected crate with cargo install
func (ui *RootUI) onInstallSelected() {
	p := &ui.searchTab
	if p.selected < 0 || p.selected >= len(p.rows) {
		dialog.ShowInformation(ui.t(KeyInstall), ui.t(KeySelectCrate), ui.window)
		return
	}
	c := p.rows[p.selected]

	ui.submitJob(jobs.Spec{
		Action:   model.ActionInstall,
		Crate:    c.Name,
		Label:    c.Name,
		Registry: ui.cfg.Registry.Name,
		Options:  ui.settings.CompileOptions(),
	})
}
