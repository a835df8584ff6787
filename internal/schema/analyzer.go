package schema

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"tc-migrate/internal/dialect"
)

// ---------------------------------------------------------------------
// Schema Analysis Logic
// ---------------------------------------------------------------------

// Analyze lists the tables of schemaName together with their columns.
func Analyze(db *sql.DB, d dialect.Dialect, schemaName string) ([]*Table, error) {
	target := d.GetSchemaName(schemaName)

	// Normalized keys so Oracle's upper-case identifiers still match.
	tableMap := make(map[string]*Table)
	var tables []*Table

	rows, err := db.Query(d.GetColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName sql.NullString
		if err := rows.Scan(&tName, &cName); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}

		key := strings.ToUpper(tName.String)
		t, ok := tableMap[key]
		if !ok {
			t = &Table{Name: tName.String}
			tableMap[key] = t
			tables = append(tables, t)
		}
		t.Columns = append(t.Columns, &Column{Name: cName.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	return tables, nil
}

// RequireColumns fails when table is missing from tables or lacks any of cols.
func RequireColumns(tables []*Table, table string, cols ...string) error {
	var found *Table
	for _, t := range tables {
		if strings.EqualFold(t.Name, table) {
			found = t
			break
		}
	}
	if found == nil {
		return fmt.Errorf("table %s not found", table)
	}

	have := make(map[string]bool, len(found.Columns))
	for _, c := range found.Columns {
		have[strings.ToUpper(c.Name)] = true
	}

	var missing []string
	for _, c := range cols {
		if !have[strings.ToUpper(c)] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("table %s is missing columns: %s", found.Name, strings.Join(missing, ", "))
	}
	return nil
}
