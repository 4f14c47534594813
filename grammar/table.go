package grammar

import "github.com/dekarrin/rosed"

// Table renders the grammar's rules as a bordered two-column table, one row
// per variable, productions joined with " | " the same way String does.
func (g *CFG) Table() string {
	data := [][]string{{"Variable", "Productions"}}
	for _, v := range g.Variables() {
		strs := sortedProductionStrings(g.rules[v])
		joined := ""
		for i, s := range strs {
			if i > 0 {
				joined += " | "
			}
			joined += s
		}
		data = append(data, []string{v, joined})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableBorders: true,
		}).
		String()
}
