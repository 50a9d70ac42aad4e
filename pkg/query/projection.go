// Package query builds parameterized SELECT statements for list endpoints.
// Statements use $N placeholders and portable SQL so they run unchanged on
// PostgreSQL (pgx) and SQLite (modernc).
package query

import "strings"

// ProjectionMap maps exported field names onto the columns of one table.
type ProjectionMap struct {
	table   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates an empty projection over table.
func NewProjectionMap(table string) *ProjectionMap {
	return &ProjectionMap{
		table:  table,
		fields: make(map[string]string),
	}
}

// Project adds column to the select list under field.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns = append(p.columns, column)
	p.fields[strings.ToLower(field)] = column
	return p
}

// Table returns the table name.
func (p *ProjectionMap) Table() string {
	return p.table
}

// Columns returns the select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// Column resolves a field name case-insensitively. Unknown fields return "".
func (p *ProjectionMap) Column(field string) string {
	return p.fields[strings.ToLower(field)]
}
