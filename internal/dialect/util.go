package dialect

import (
	"fmt"
	"net/url"
	"strings"
)

// Columns of the legacy problem table, in SELECT order.
var LegacyColumns = []string{"id", "title", "test_cases", "difficulty"}

// Columns of the normalized test-case table, in INSERT order.
var TestCaseColumns = []string{
	"problem_id", "input_data", "expected_output", "source",
	"difficulty_level", "is_active", "created_at",
}

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// selectLegacy builds the legacy fetch with a driver-specific non-empty test.
func selectLegacy(table, nonEmpty string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE test_cases IS NOT NULL AND %s ORDER BY id",
		strings.Join(LegacyColumns, ", "), table, nonEmpty)
}

func countBySource(table, placeholder string) string {
	return fmt.Sprintf("SELECT problem_id, COUNT(*) FROM %s WHERE source = %s GROUP BY problem_id", table, placeholder)
}

func deleteBySource(table, placeholder string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE source = %s", table, placeholder)
}

// urlWithPassword sets credential as the password of a URL-style endpoint,
// keeping any user name already present.
func urlWithPassword(endpoint, credential string, schemes ...string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	ok := false
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			ok = true
			break
		}
	}
	if !ok {
		return "", fmt.Errorf("endpoint scheme %q not supported (want %s)", u.Scheme, strings.Join(schemes, ", "))
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	user := ""
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, credential)
	return u.String(), nil
}
