// Package reports serves the named read-only projections the depot staff
// run day to day. The catalog is fixed; each report is a prepared SQL
// statement selected by code.
package reports

import "github.com/autopark-suite/autopark/internal/authz"

// Definition is one catalog entry. Module decides which permission module
// guards it: aggregates live under "reports", raw projections under
// "queries".
type Definition struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Module string `json:"-"`
	SQL    string `json:"-"`
}

var definitions = []Definition{
	{
		Code:   "revenue-by-route",
		Name:   "Выручка по маршрутам",
		Module: authz.ModuleReports,
		SQL: `
			SELECT r.number AS route, COUNT(t.id) AS trips, COALESCE(SUM(t.revenue), 0) AS revenue
			FROM trips t
			JOIN routes r ON r.id = t.route_id
			WHERE t.trip_date BETWEEN $1 AND $2
			GROUP BY r.number
			ORDER BY revenue DESC`,
	},
	{
		Code:   "revenue-by-day",
		Name:   "Выручка по дням",
		Module: authz.ModuleReports,
		SQL: `
			SELECT day, SUM(trips) AS trips, SUM(revenue) AS revenue
			FROM revenue_daily
			WHERE day BETWEEN $1 AND $2
			GROUP BY day
			ORDER BY day`,
	},
	{
		Code:   "trips-per-driver",
		Name:   "Рейсы по водителям",
		Module: authz.ModuleReports,
		SQL: `
			SELECT e.full_name AS driver, COUNT(t.id) AS trips, COALESCE(SUM(t.revenue), 0) AS revenue
			FROM trips t
			JOIN employees e ON e.id = t.driver_id
			WHERE t.trip_date BETWEEN $1 AND $2
			GROUP BY e.full_name
			ORDER BY trips DESC`,
	},
	{
		Code:   "bus-utilisation",
		Name:   "Загрузка автобусов",
		Module: authz.ModuleQueries,
		SQL: `
			SELECT b.plate AS bus, COUNT(t.id) AS trips
			FROM buses b
			LEFT JOIN trips t ON t.bus_id = b.id AND t.trip_date BETWEEN $1 AND $2
			GROUP BY b.plate
			ORDER BY trips DESC`,
	},
	{
		Code:   "idle-buses",
		Name:   "Автобусы без рейсов",
		Module: authz.ModuleQueries,
		SQL: `
			SELECT b.plate AS bus, s.name AS state
			FROM buses b
			LEFT JOIN lookup_busstates s ON s.id = b.state_id
			WHERE NOT EXISTS (
				SELECT 1 FROM trips t WHERE t.bus_id = b.id AND t.trip_date BETWEEN $1 AND $2
			)
			ORDER BY b.plate`,
	},
}

// CatalogFor lists the definitions guarded by the given module code.
func CatalogFor(module string) []Definition {
	var out []Definition
	for _, d := range definitions {
		if d.Module == module {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a definition by code.
func Lookup(code string) (Definition, bool) {
	for _, d := range definitions {
		if d.Code == code {
			return d, true
		}
	}
	return Definition{}, false
}
