package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"inventory_viewer/internal/rows"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	dim      lipgloss.Style
	supplier lipgloss.Style
	code     lipgloss.Style
	alert    lipgloss.Style
	color    lipgloss.Style
	badge    lipgloss.Style
	native   lipgloss.Style
	primary  lipgloss.Style
	link     lipgloss.Style
	missing  lipgloss.Style
}

// Printer renders the inventory list to a terminal. Colors are only emitted when w is a terminal.
type Printer struct {
	w      io.Writer
	styles styles
	now    func() time.Time
}

func NewPrinter(w io.Writer) *Printer {
	return newPrinter(w, lipgloss.NewRenderer(w))
}

func newPrinter(w io.Writer, r *lipgloss.Renderer) *Printer {
	return &Printer{
		w: w,
		styles: styles{
			title:    r.NewStyle().Bold(true),
			dim:      r.NewStyle().Faint(true),
			supplier: r.NewStyle().Bold(true),
			code:     r.NewStyle().Foreground(lipgloss.Color("244")),
			alert:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			color:    r.NewStyle().Bold(true),
			badge:    r.NewStyle().Foreground(lipgloss.Color("94")).Background(lipgloss.Color("230")).Padding(0, 1),
			native:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("35")),
			primary:  r.NewStyle().Foreground(lipgloss.Color("245")),
			link:     r.NewStyle().Foreground(lipgloss.Color("33")),
			missing:  r.NewStyle().Foreground(lipgloss.Color("250")),
		},
		now: time.Now,
	}
}

// List prints the header line and one block per row, newest first.
func (p *Printer) List(table rows.Table) {
	fmt.Fprintln(p.w, p.header(table))
	fmt.Fprintln(p.w)

	if len(table.Rows) == 0 {
		fmt.Fprintln(p.w, p.styles.dim.Render("No items found."))
		return
	}
	for _, r := range table.Rows {
		fmt.Fprintln(p.w, p.row(r))
	}
}

// Detail prints one row with the links behind its attachments.
func (p *Printer) Detail(r rows.SheetRow) {
	fmt.Fprintln(p.w, p.row(r))
	p.attachment(rows.DR, r)
	p.attachment(rows.CBM, r)
}

func (p *Printer) header(table rows.Table) string {
	parts := []string{
		p.now().Format("Jan 2"),
		table.Rate,
		table.AuxValue,
	}
	return p.styles.title.Render(strings.Join(parts, " | "))
}

func (p *Printer) row(r rows.SheetRow) string {
	var sb strings.Builder

	supplier := r.Supplier
	if supplier == "" {
		supplier = "-"
	}
	fmt.Fprintf(&sb, "#%d %s  %s\n", r.OriginalIndex, p.styles.supplier.Render(supplier), p.styles.code.Render(r.Code+" x 1.05"))

	if r.Description != "" {
		fmt.Fprintf(&sb, "   %s\n", r.Description)
	}

	fmt.Fprintf(&sb, "   %s", p.colorTag(r))
	if r.Remarks != "" {
		fmt.Fprintf(&sb, " %s", p.styles.badge.Render(r.Remarks))
	}
	sb.WriteString("\n")

	prices := []string{
		p.styles.native.Render("¥" + r.PriceNative),
		p.styles.primary.Render("₱" + r.PricePrimary),
	}
	if r.CBMValue != "" {
		prices = append(prices, p.styles.native.Render("CBM ¥"+r.CBMValue))
	}
	if r.CBMSecondary != "" {
		prices = append(prices, p.styles.primary.Render("CBM ₱"+r.CBMSecondary))
	}
	fmt.Fprintf(&sb, "   %s\n", strings.Join(prices, "  "))

	fmt.Fprintf(&sb, "   %s  %s", p.marker(rows.DR, r), p.marker(rows.CBM, r))
	return sb.String()
}

func (p *Printer) colorTag(r rows.SheetRow) string {
	color := strings.TrimSpace(r.Color)
	if color == "" {
		color = "-"
	}
	return p.colorStyle(r).Render(color)
}

// colorStyle flags the color tag red while the row has no remarks.
func (p *Printer) colorStyle(r rows.SheetRow) lipgloss.Style {
	if r.IsColorAlert() {
		return p.styles.alert
	}
	return p.styles.color
}

func (p *Printer) marker(kind rows.Attachment, r rows.SheetRow) string {
	if strings.TrimSpace(kind.Link(r)) == "" {
		return p.styles.missing.Render("[" + string(kind) + " -]")
	}
	return p.styles.link.Render("[" + string(kind) + " ✓]")
}

func (p *Printer) attachment(kind rows.Attachment, r rows.SheetRow) {
	link := strings.TrimSpace(kind.Link(r))
	if link == "" {
		fmt.Fprintf(p.w, "%s: none\n", kind)
		return
	}
	fmt.Fprintf(p.w, "%s: %s\n", kind, p.styles.link.Render(link))

	id := rows.DriveFileID(link)
	if id == "" {
		return
	}
	fmt.Fprintf(p.w, "   thumbnail: %s\n", rows.ThumbnailURL(id))
	for _, u := range rows.ImageURLs(id) {
		fmt.Fprintf(p.w, "   image: %s\n", u)
	}
}
