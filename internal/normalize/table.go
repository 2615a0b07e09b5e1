package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	returnClausePattern = regexp.MustCompile(`(?is)\breturn\b(.*)$`)
	asAliasPattern      = regexp.MustCompile(`(?i)\s+as\s+`)
	propertyPattern     = regexp.MustCompile(`\w+\.\w+`)
)

// LooksTabular reports whether the query's return clause appears to project
// named scalar or property values rather than whole entity variables. The
// check is textual: a property access (n.name) or an AS alias in the return
// clause marks the query as tabular. Isolated here so a real query
// classifier can replace it without touching the orchestrator.
func LooksTabular(query string) bool {
	m := returnClausePattern.FindStringSubmatch(query)
	if m == nil {
		return false
	}
	clause := m[1]
	return propertyPattern.MatchString(clause) || asAliasPattern.MatchString(clause)
}

// ToTable converts raw records into the flat table form. It returns nil when
// the query does not look tabular or there are no records. Columns come from
// the first record's field names, which are assumed stable across all records
// of one result set; duplicate column names are collapsed.
func ToTable(query string, records []Record) *Table {
	if !LooksTabular(query) || len(records) == 0 {
		return nil
	}

	first := records[0]
	columns := make([]string, 0, len(first.Keys))
	seen := make(map[string]bool, len(first.Keys))
	for _, key := range first.Keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		columns = append(columns, key)
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			row[col] = record.Fields[col]
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// RenderTable produces a compact markdown rendering of the table for use in
// reply text. Output is capped at maxRows data rows; a truncation note is
// appended when rows are omitted.
func RenderTable(t *Table, maxRows int) string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")

	shown := len(t.Rows)
	if maxRows > 0 && shown > maxRows {
		shown = maxRows
	}
	for _, row := range t.Rows[:shown] {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = formatCell(row[col])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if shown < len(t.Rows) {
		b.WriteString("\n... " + strconv.Itoa(len(t.Rows)-shown) + " more rows omitted\n")
	}

	return b.String()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.ReplaceAll(val, "|", `\|`)
	default:
		return strings.ReplaceAll(fmt.Sprintf("%v", val), "|", `\|`)
	}
}
