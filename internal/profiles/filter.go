// Package profiles implements the structured filter query language used by
// the profile search endpoint.
package profiles

import (
	"fmt"
	"strings"

	"floatchat-backend/internal/database"
)

// Filter evaluates a parsed query either against a row in memory or as a SQL
// condition pushed down to the database. Field names in the query language
// are the profile column names, so ToSQL interpolates only validated fields.
type Filter interface {
	Matches(profile *database.Profile) bool
	ToSQL() (string, []any)
}

type AndFilter struct {
	filters []Filter
}

func (f *AndFilter) Matches(profile *database.Profile) bool {
	for _, filter := range f.filters {
		if !filter.Matches(profile) {
			return false
		}
	}
	return true
}

func (f *AndFilter) ToSQL() (string, []any) {
	return joinSQL(f.filters, " AND ")
}

type OrFilter struct {
	filters []Filter
}

func (f *OrFilter) Matches(profile *database.Profile) bool {
	for _, filter := range f.filters {
		if filter.Matches(profile) {
			return true
		}
	}
	return false
}

func (f *OrFilter) ToSQL() (string, []any) {
	return joinSQL(f.filters, " OR ")
}

func joinSQL(filters []Filter, op string) (string, []any) {
	conditions := make([]string, len(filters))
	var args []any
	for i, filter := range filters {
		condition, conditionArgs := filter.ToSQL()
		conditions[i] = condition
		args = append(args, conditionArgs...)
	}
	return "(" + strings.Join(conditions, op) + ")", args
}

type NotFilter struct {
	filter Filter
}

func (f *NotFilter) Matches(profile *database.Profile) bool {
	return !f.filter.Matches(profile)
}

func (f *NotFilter) ToSQL() (string, []any) {
	condition, args := f.filter.ToSQL()
	return "NOT (" + condition + ")", args
}

type NumericFilter struct {
	field string
	op    string
	value float64
}

func (f *NumericFilter) Matches(profile *database.Profile) bool {
	actual, ok := numericField(profile, f.field)
	if !ok {
		return false
	}

	switch f.op {
	case "<":
		return actual < f.value
	case ">":
		return actual > f.value
	case "=":
		return actual == f.value
	default:
		return false
	}
}

func (f *NumericFilter) ToSQL() (string, []any) {
	return fmt.Sprintf("%s %s ?", f.field, f.op), []any{f.value}
}

type StringEqFilter struct {
	field string
	value string
}

func (f *StringEqFilter) Matches(profile *database.Profile) bool {
	actual, ok := stringField(profile, f.field)
	return ok && actual == f.value
}

func (f *StringEqFilter) ToSQL() (string, []any) {
	return f.field + " = ?", []any{f.value}
}

type SubstringFilter struct {
	field  string
	substr string
}

func (f *SubstringFilter) Matches(profile *database.Profile) bool {
	actual, ok := stringField(profile, f.field)
	return ok && strings.Contains(actual, f.substr)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f *SubstringFilter) ToSQL() (string, []any) {
	return f.field + ` LIKE ? ESCAPE '\'`, []any{"%" + likeEscaper.Replace(f.substr) + "%"}
}

func numericField(profile *database.Profile, field string) (float64, bool) {
	switch field {
	case "temperature":
		return profile.Temperature, true
	case "salinity":
		return profile.Salinity, true
	case "depth":
		return profile.Depth, true
	case "latitude":
		return profile.Latitude, true
	case "longitude":
		return profile.Longitude, true
	default:
		return 0, false
	}
}

func stringField(profile *database.Profile, field string) (string, bool) {
	switch field {
	case "region":
		return profile.Region, true
	case "float_id":
		return profile.FloatId, true
	default:
		return "", false
	}
}

// IsNumericField reports whether the field name compares as a number. Used
// by the parser to reject type-mismatched comparisons up front.
func IsNumericField(field string) bool {
	_, ok := numericField(&database.Profile{}, field)
	return ok
}

// IsStringField reports whether the field name compares as a string.
func IsStringField(field string) bool {
	_, ok := stringField(&database.Profile{}, field)
	return ok
}
