package engine

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"tc-migrate/internal/schema"
)

// GenerateTitle builds a problem title from the fragment dictionaries.
func GenerateTitle(f *gofakeit.Faker) string {
	return f.RandomString(TitleVerbs) + " " + f.RandomString(TitleNouns)
}

// GenerateValue produces one random test value: a number, a word, or a
// small array of either.
func GenerateValue(f *gofakeit.Faker) schema.Value {
	switch f.Number(0, 3) {
	case 0:
		return schema.Number(float64(f.Number(-1000, 1000)))
	case 1:
		return schema.Number(float64(f.Number(-10000, 10000)) / 100)
	case 2:
		return schema.Text(f.Word())
	default:
		n := f.Number(0, 5)
		items := make([]schema.Value, 0, n)
		words := f.Bool()
		for i := 0; i < n; i++ {
			if words {
				items = append(items, schema.Text(f.Word()))
			} else {
				items = append(items, schema.Number(float64(f.Number(0, 100))))
			}
		}
		return schema.List(items...)
	}
}

// GenerateTestCase produces a tuple with 1-3 inputs and an expected output.
func GenerateTestCase(f *gofakeit.Faker) schema.ParsedTestCase {
	n := f.Number(2, 4)
	tc := make(schema.ParsedTestCase, 0, n)
	for i := 0; i < n; i++ {
		tc = append(tc, GenerateValue(f))
	}
	return tc
}

// FormatLegacy renders test cases in the legacy delimited encoding.
func FormatLegacy(cases []schema.ParsedTestCase) string {
	groups := make([]string, len(cases))
	for i, tc := range cases {
		vals := make([]string, len(tc))
		for j, v := range tc {
			vals[j] = v.String()
		}
		groups[i] = "(" + strings.Join(vals, ", ") + ")"
	}
	return strings.Join(groups, ", ")
}

// GenerateLegacyRecord builds a synthetic problem with the given number of
// test cases. Difficulty is left empty about a quarter of the time to
// exercise the default. The generated cases are returned alongside.
func GenerateLegacyRecord(f *gofakeit.Faker, cases int) (schema.LegacyRecord, []schema.ParsedTestCase) {
	generated := make([]schema.ParsedTestCase, 0, cases)
	for i := 0; i < cases; i++ {
		generated = append(generated, GenerateTestCase(f))
	}

	difficulty := ""
	if f.Number(0, 3) > 0 {
		difficulty = f.RandomString(Difficulties)
	}

	return schema.LegacyRecord{
		Title:        GenerateTitle(f),
		Difficulty:   difficulty,
		TestCasesRaw: FormatLegacy(generated),
	}, generated
}
