package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// typeMap converts Postgres arrays in and out of Go slices over database/sql.
var typeMap = pgtype.NewMap()

// textArray adapts a *[]string for Scan.
func textArray(dst *[]string) any {
	return typeMap.SQLScanner(dst)
}

// conditions accumulates AND-ed predicates with numbered placeholders.
type conditions struct {
	clauses []string
	args    []any
}

// add appends a predicate in which every "?" stands for arg.
func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, strings.ReplaceAll(clause, "?", c.placeholder()))
}

// next reserves a placeholder for arg outside the WHERE clause (LIMIT, OFFSET).
func (c *conditions) next(arg any) string {
	c.args = append(c.args, arg)
	return c.placeholder()
}

func (c *conditions) placeholder() string {
	return fmt.Sprintf("$%d", len(c.args))
}

// where renders " WHERE a AND b" or "" when empty.
func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
