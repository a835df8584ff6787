package dialect

// Dialect abstracts database-specific operations.
type Dialect interface {
	// Connection
	DriverName() string
	ConnString(endpoint, credential string) (string, error)

	// Metadata Queries (Schema Introspection)
	// GetColumnsQuery returns (table_name, column_name) rows for schema.
	GetColumnsQuery(schema string) string

	// Query Generation
	SelectLegacyQuery(table string) string
	InsertQuery(table string, cols []string) string
	CountBySourceQuery(table string) string
	DeleteBySourceQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, etc.

	// Helpers
	BoolValue(b bool) interface{}
	GetSchemaName(input string) string
	GetLimitRowQuery(query string, limit int) string
}
