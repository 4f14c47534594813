package automaton

import "github.com/dekarrin/rosed"

// renderTransitionTable builds a bordered rows-by-columns table, mirroring
// the LL1Table.String() rendering used for ictiobus's parse tables: a
// header row of column labels, then one row per state, cell contents
// supplied by cell.
func renderTransitionTable(states, columns []string, cell func(state, column string) string) string {
	data := [][]string{append([]string{""}, columns...)}
	for _, state := range states {
		row := []string{state}
		for _, col := range columns {
			row = append(row, cell(state, col))
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableBorders: true,
		}).
		String()
}
