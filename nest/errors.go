package nest

import (
	"fmt"
	"strings"
)

// SchemaError reports hierarchy or value columns that do not exist in the
// input table. It is a hard failure: nothing is built.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("column %q not found in table", e.Missing[0])
	}
	quoted := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("columns %s not found in table", strings.Join(quoted, ", "))
}
