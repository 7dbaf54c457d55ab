package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
	SelIdx  int // highlighted row index (-1 = none)
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, SelIdx: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the full table as a string. Cells are padded by rune count
// so multi-byte values keep columns aligned.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	var headers []string
	for _, col := range t.Columns {
		headers = append(headers, headerStyle.Render(pad(col.Title, col.Width)))
	}
	sb.WriteString(strings.Join(headers, " "))
	sb.WriteString("\n")

	var divParts []string
	for _, col := range t.Columns {
		divParts = append(divParts, dimStyle.Render(strings.Repeat("-", col.Width)))
	}
	sb.WriteString(strings.Join(divParts, " "))
	sb.WriteString("\n")

	for i, row := range t.Rows {
		var cells []string
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			style := cellStyle
			if i == t.SelIdx {
				style = StyleSelected
			}
			cells = append(cells, style.Render(pad(val, col.Width)))
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// ProfileTable renders a listing with the active profile highlighted.
func ProfileTable(l profile.Listing) string {
	t := NewTable([]Column{
		{Title: "", Width: 1},
		{Title: "ID", Width: 36},
		{Title: "Name", Width: 18},
		{Title: "RPC", Width: 32},
		{Title: "World", Width: 13},
		{Title: "Flags", Width: 9},
	})
	for i, p := range l.Profiles {
		marker := ""
		if l.ActiveProfile != nil && l.ActiveProfile.ID == p.ID {
			marker = "*"
			t.SelIdx = i
		}
		flags := ""
		if p.IsReadOnly {
			flags = "read-only"
		}
		t.AddRow(Row{marker, p.ID, p.Name, p.RPCURL, TruncateAddr(p.WorldAddress), flags})
	}
	return t.Render()
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-22s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}

// ProfileDetail renders every field of p. Contracts are listed in their
// declared order, then any extra keys.
func ProfileDetail(p profile.Profile, active bool) string {
	pairs := [][2]string{
		{"ID", p.ID},
		{"Description", p.Description},
		{"Admin address", p.AdminAddress},
		{"Admin private key", p.AdminPrivateKey},
		{"RPC URL", p.RPCURL},
		{"Torii URL", p.ToriiURL},
		{"World address", p.WorldAddress},
	}
	seen := make(map[string]bool, len(p.Contracts))
	for _, k := range profile.ContractKeys {
		if v, ok := p.Contracts[k]; ok {
			pairs = append(pairs, [2]string{k, v})
			seen[k] = true
		}
	}
	for k, v := range p.Contracts {
		if !seen[k] {
			pairs = append(pairs, [2]string{k, v})
		}
	}
	pairs = append(pairs,
		[2]string{"Active", fmt.Sprintf("%t", active)},
		[2]string{"Read-only", fmt.Sprintf("%t", p.IsReadOnly)},
		[2]string{"Updated", p.UpdatedAt.Format("2006-01-02 15:04:05")},
	)
	return KeyValueBlock(p.Name, pairs)
}

// pad returns s left-aligned within exactly width runes, truncating if needed.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
