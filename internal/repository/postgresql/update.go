package postgresql

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// updateStatement renders a partial UPDATE for the given columns, keyed on id.
func updateStatement(table string, updates map[string]interface{}, id string) (string, []interface{}) {
	updates["updated_at"] = time.Now()

	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, updates[col])
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING id", table, strings.Join(setClauses, ", "), len(cols)+1)
	return sql, append(args, id)
}
