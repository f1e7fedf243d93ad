package sqlite

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// updateStatement renders a partial UPDATE for the given columns, keyed on id.
func updateStatement(table string, updates map[string]interface{}, id string) (string, []interface{}) {
	updates["updated_at"] = time.Now().UTC()

	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for _, col := range cols {
		setClauses = append(setClauses, col+" = ?")
		args = append(args, updates[col])
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(setClauses, ", ")), append(args, id)
}
