package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) DriverName() string { return "oracle" }

func (d *OracleDialect) ConnString(endpoint, credential string) (string, error) {
	return urlWithPassword(endpoint, credential, "oracle")
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	// USER_TAB_COLUMNS lists columns of tables owned by the current user.
	// We include a dummy clause to consume the schema argument if passed by standard callers.
	return `SELECT TABLE_NAME, COLUMN_NAME FROM USER_TAB_COLUMNS WHERE :1 IS NOT NULL ORDER BY TABLE_NAME, COLUMN_ID`
}

func (d *OracleDialect) SelectLegacyQuery(table string) string {
	// Oracle stores '' as NULL, so IS NOT NULL alone would do; LENGTH also covers CLOBs.
	return selectLegacy(table, "LENGTH(test_cases) > 0")
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *OracleDialect) CountBySourceQuery(table string) string {
	return countBySource(table, d.Placeholder(0))
}

func (d *OracleDialect) DeleteBySourceQuery(table string) string {
	return deleteBySource(table, d.Placeholder(0))
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

// BoolValue maps to NUMBER(1); Oracle has no boolean column type before 23c.
func (d *OracleDialect) BoolValue(b bool) interface{} {
	if b {
		return 1
	}
	return 0
}

func (d *OracleDialect) GetSchemaName(input string) string {
	if input == "" {
		return "USER"
	}
	return input
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}
