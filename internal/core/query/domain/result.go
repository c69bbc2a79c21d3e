package domain

// Row maps column names to values.
type Row map[string]interface{}

// ResultSet is the ordered, read-only output of one executed Query.
type ResultSet struct {
	columns []string
	rows    []Row
}

// NewResultSet takes ownership of columns and rows.
func NewResultSet(columns []string, rows []Row) *ResultSet {
	if rows == nil {
		rows = []Row{}
	}
	return &ResultSet{columns: columns, rows: rows}
}

// Columns returns a copy of the column names in select order.
func (r *ResultSet) Columns() []string {
	c := make([]string, len(r.columns))
	copy(c, r.columns)
	return c
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	return len(r.rows)
}

// Row returns a copy of the i-th row.
func (r *ResultSet) Row(i int) Row {
	return copyRow(r.rows[i])
}

// Rows returns a copy of every row in order.
func (r *ResultSet) Rows() []Row {
	out := make([]Row, len(r.rows))
	for i, row := range r.rows {
		out[i] = copyRow(row)
	}
	return out
}

// Values returns the i-th row as a slice ordered like Columns.
func (r *ResultSet) Values(i int) []interface{} {
	row := r.rows[i]
	out := make([]interface{}, len(r.columns))
	for j, col := range r.columns {
		out[j] = row[col]
	}
	return out
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
