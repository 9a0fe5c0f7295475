package greeting

import (
	"io"
	"strings"

	"github.com/jim-barber-he/aa-greeting/texttable"
	"github.com/jim-barber-he/aa-greeting/webex"
)

// Status of a single Auto Attendant after a run.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is the outcome for one Auto Attendant.
type Result struct {
	AutoAttendant webex.AutoAttendant
	Status        Status
	Err           error
}

// Report collects the results of a run.
type Report struct {
	Results []Result
}

// Failed returns the number of Auto Attendants that could not be updated.
func (r *Report) Failed() int {
	var n int
	for _, result := range r.Results {
		if result.Status == StatusFailed {
			n++
		}
	}
	return n
}

type resultRow struct {
	Location string `title:"LOCATION"`
	Name     string `title:"NAME"`
	Result   string `title:"RESULT"`
	Error    string `title:"ERROR,omitempty"`
}

// Implement the texttable.TableFormatter interface.
func (r *resultRow) TabTitleRow() string {
	return texttable.ReflectedTitleRow(r)
}

// Implement the texttable.TableFormatter interface.
func (r *resultRow) TabValues() string {
	return texttable.ReflectedTabValues(r)
}

// Write prints the results as a table.
func (r *Report) Write(w io.Writer) error {
	var tbl texttable.Table[*resultRow]
	for _, result := range r.Results {
		row := &resultRow{
			Location: result.AutoAttendant.LocationName,
			Name:     result.AutoAttendant.Name,
			Result:   string(result.Status),
		}
		if result.Err != nil {
			// Error bodies from the API can span lines, which would break the table.
			row.Error = strings.Join(strings.Fields(result.Err.Error()), " ")
		}
		tbl.Append(row)
	}
	return tbl.Write(w)
}
