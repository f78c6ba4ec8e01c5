package authz

// Module codes. The catalog is hard-coded and recreated identically every
// run; it is never persisted or versioned.
const (
	ModuleBuses       = "buses"
	ModuleRoutes      = "routes"
	ModuleTrips       = "trips"
	ModuleEmployees   = "employees"
	ModuleReports     = "reports"
	ModuleQueries     = "queries"
	ModuleLookups     = "lookups"
	ModuleUsers       = "users"
	ModulePermissions = "permissions"

	// Lookup sub-codes, permissioned independently of the umbrella
	// "lookups" navigation entry.
	ModuleModels     = "models"
	ModuleBusStates  = "busstates"
	ModuleColors     = "colors"
	ModulePositions  = "positions"
	ModuleStreets    = "streets"
	ModuleStops      = "stops"
	ModuleShiftTypes = "shifttypes"
)

// Module is a catalog entry: a permissionable functional area.
type Module struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var catalog = []Module{
	{Code: ModuleBuses, Name: "Автобусы"},
	{Code: ModuleRoutes, Name: "Маршруты"},
	{Code: ModuleTrips, Name: "Рейсы"},
	{Code: ModuleEmployees, Name: "Сотрудники"},
	{Code: ModuleReports, Name: "Отчёты"},
	{Code: ModuleQueries, Name: "Запросы"},
	{Code: ModuleLookups, Name: "Справочники"},
	{Code: ModuleUsers, Name: "Пользователи"},
	{Code: ModulePermissions, Name: "Права доступа"},
	{Code: ModuleModels, Name: "Модели автобусов"},
	{Code: ModuleBusStates, Name: "Состояния автобусов"},
	{Code: ModuleColors, Name: "Цвета"},
	{Code: ModulePositions, Name: "Должности"},
	{Code: ModuleStreets, Name: "Улицы"},
	{Code: ModuleStops, Name: "Остановки"},
	{Code: ModuleShiftTypes, Name: "Типы смен"},
}

// Catalog returns the full module catalog in display order.
func Catalog() []Module {
	out := make([]Module, len(catalog))
	copy(out, catalog)
	return out
}

// KnownModule reports whether the code is a member of the catalog. Unknown
// codes are not an error anywhere in the gate; they simply never match.
func KnownModule(code string) bool {
	for _, m := range catalog {
		if m.Code == code {
			return true
		}
	}
	return false
}
