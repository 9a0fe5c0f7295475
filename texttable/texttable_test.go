package texttable

import (
	"bytes"
	"fmt"
	"testing"
)

type Row struct {
	Name  string `title:"NAME"`
	Value string `title:"VALUE"`
	Note  string `title:"NOTE,omitempty"`
}

// Implement the texttable.TableFormatter interface.
func (tr *Row) TabTitleRow() string {
	return ReflectedTitleRow(tr)
}

// Implement the texttable.TableFormatter interface.
func (tr *Row) TabValues() string {
	return ReflectedTabValues(tr)
}

func TestReflectedTitleRow(t *testing.T) {
	t.Parallel()

	t.Run("ReflectedTitleRow", func(t *testing.T) {
		t.Parallel()

		row := &Row{}
		expected := "NAME\tVALUE\tNOTE,omitempty"
		if row.TabTitleRow() != expected {
			t.Errorf("TabTitleRow() failed, expected %s, got %s", expected, row.TabTitleRow())
		}
	})
}

func TestReflectedTabValues(t *testing.T) {
	t.Parallel()

	t.Run("ReflectedTabValues", func(t *testing.T) {
		t.Parallel()

		row := &Row{Name: "a", Value: "b"}
		expected := "a\tb\t"
		if row.TabValues() != expected {
			t.Errorf("TabValues() failed, expected %q, got %q", expected, row.TabValues())
		}
	})
}

func TestAppend(t *testing.T) {
	t.Parallel()

	t.Run("Append", func(t *testing.T) {
		t.Parallel()

		tbl := Table[*Row]{
			Rows: []*Row{
				{Name: "a", Value: "a"},
				{Name: "b", Value: "b"},
			},
		}
		tbl.Append(&Row{Name: "c", Value: "c"})

		expectedLen := 3
		if len(tbl.Rows) != expectedLen {
			t.Errorf("Append() failed, expected %d, got %d", expectedLen, len(tbl.Rows))
		}

		table := ""
		for _, row := range tbl.Rows {
			table += fmt.Sprintln(row.Name)
		}
		expected := "a\nb\nc\n"
		if table != expected {
			t.Errorf("Append() failed, expected %s, got %s", expected, table)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rows     []*Row
		expected string
	}{
		{
			name:     "empty",
			rows:     nil,
			expected: "",
		},
		{
			name: "omitempty column dropped",
			rows: []*Row{
				{Name: "reception", Value: "updated"},
				{Name: "sales", Value: "failed"},
			},
			expected: "NAME       VALUE\nreception  updated\nsales      failed\n",
		},
		{
			name: "omitempty column kept",
			rows: []*Row{
				{Name: "reception", Value: "updated"},
				{Name: "sales", Value: "failed", Note: "404"},
			},
			expected: "NAME       VALUE    NOTE\nreception  updated  \nsales      failed   404\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := Table[*Row]{Rows: tt.rows}

			var buf bytes.Buffer
			if err := tbl.Write(&buf); err != nil {
				t.Fatalf("Write() returned an error: %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("Write() failed, expected %q, got %q", tt.expected, buf.String())
			}
		})
	}
}
