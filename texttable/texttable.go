/*
Package texttable provides functions for handling outputting a text based table.

Rows are structs whose string fields carry a `title` struct tag naming the column.
A title of the form `title:"NAME,omitempty"` drops the column when it is empty in every row.
*/
package texttable

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
)

const (
	tableFlags    = 0
	tableMinWidth = 0
	tablePadChar  = ' '
	tablePadding  = 2
	tableTabWidth = 8
)

// TableFormatter is implemented by row types that can render themselves as tab separated strings.
type TableFormatter interface {
	TabTitleRow() string
	TabValues() string
}

// Table is a generic struct for representing a table with a slice of rows.
type Table[R TableFormatter] struct {
	Rows []R
}

// Append adds a new row to existing rows in a table.
func (t *Table[R]) Append(r R) {
	t.Rows = append(t.Rows, r)
}

// Write the table to w. Nothing is written for an empty table.
// Columns tagged with omitempty are dropped when every row leaves them empty.
func (t *Table[R]) Write(w io.Writer) error {
	if len(t.Rows) == 0 {
		return nil
	}

	titles := strings.Split(t.Rows[0].TabTitleRow(), "\t")
	keep := make([]bool, len(titles))

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = strings.Split(row.TabValues(), "\t")
	}

	for col, title := range titles {
		name, omitEmpty := strings.CutSuffix(title, ",omitempty")
		titles[col] = name
		keep[col] = !omitEmpty
		for _, values := range rows {
			if col < len(values) && values[col] != "" {
				keep[col] = true
				break
			}
		}
	}

	tw := tabwriter.NewWriter(w, tableMinWidth, tableTabWidth, tablePadding, tablePadChar, tableFlags)

	fmt.Fprintln(tw, strings.Join(filterColumns(titles, keep), "\t"))
	for _, values := range rows {
		fmt.Fprintln(tw, strings.Join(filterColumns(values, keep), "\t"))
	}

	return tw.Flush()
}

func filterColumns(values []string, keep []bool) []string {
	var out []string
	for i, value := range values {
		if i < len(keep) && keep[i] {
			out = append(out, value)
		}
	}
	return out
}

// ReflectedTitleRow returns the `title` tags of the struct pointed to by row, separated by tabs.
// An omitempty option is passed through so that Table.Write can decide whether to show the column.
func ReflectedTitleRow(row any) string {
	v := reflect.Indirect(reflect.ValueOf(row))

	var s []string
	for _, sf := range reflect.VisibleFields(v.Type()) {
		title, ok := sf.Tag.Lookup("title")
		if !ok {
			continue
		}
		s = append(s, title)
	}

	return strings.Join(s, "\t")
}

// ReflectedTabValues returns the values of the titled fields of the struct pointed to by row, separated by tabs.
func ReflectedTabValues(row any) string {
	v := reflect.Indirect(reflect.ValueOf(row))

	var s []string
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if _, ok := sf.Tag.Lookup("title"); !ok {
			continue
		}
		s = append(s, fmt.Sprint(v.FieldByIndex(sf.Index).Interface()))
	}

	return strings.Join(s, "\t")
}
