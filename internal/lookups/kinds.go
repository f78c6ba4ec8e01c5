// Package lookups implements the simple (id, name) reference dictionaries:
// bus models, bus states, colors, positions, streets, stops and shift types.
// The set of kinds is fixed; each kind has its own table and is permissioned
// under its own module code.
package lookups

import "github.com/autopark-suite/autopark/internal/authz"

// Kind describes one dictionary: its module code, backing table and
// display name.
type Kind struct {
	Code  string
	Table string
	Name  string
}

var kinds = []Kind{
	{Code: authz.ModuleModels, Table: "lookup_models", Name: "Модели автобусов"},
	{Code: authz.ModuleBusStates, Table: "lookup_busstates", Name: "Состояния автобусов"},
	{Code: authz.ModuleColors, Table: "lookup_colors", Name: "Цвета"},
	{Code: authz.ModulePositions, Table: "lookup_positions", Name: "Должности"},
	{Code: authz.ModuleStreets, Table: "lookup_streets", Name: "Улицы"},
	{Code: authz.ModuleStops, Table: "lookup_stops", Name: "Остановки"},
	{Code: authz.ModuleShiftTypes, Table: "lookup_shifttypes", Name: "Типы смен"},
}

// Kinds returns all dictionary kinds in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// KindByCode looks a kind up by its module code.
func KindByCode(code string) (Kind, bool) {
	for _, k := range kinds {
		if k.Code == code {
			return k, true
		}
	}
	return Kind{}, false
}
