package menu

// Meal is a single dish served on a day.
type Meal struct {
	// Name is the dish name, trimmed and lower-cased.
	Name string `cbor:"name" json:"name" yaml:"name"`
	// Type is the course, e.g. "polévka" or "oběd 1", trimmed and lower-cased.
	Type string `cbor:"type" json:"type" yaml:"type"`
	// Allergens holds allergen codes, or their display names when the menu
	// was decoded with name resolution. Never nil.
	Allergens []string `cbor:"allergens" json:"allergens" yaml:"allergens"`
}

// Day is the menu of one date.
type Day struct {
	// Date is the feed's datum attribute (DD-MM-YYYY), trimmed but otherwise
	// verbatim.
	Date  string `cbor:"date"  json:"date"  yaml:"date"`
	Meals []Meal `cbor:"meals" json:"meals" yaml:"meals"`
}

// Menu is every day listed in a cafeteria's feed, in feed order.
type Menu struct {
	CafeteriaID int   `cbor:"cafeteria_id" json:"cafeteria_id" yaml:"cafeteria_id"`
	Days        []Day `cbor:"days"         json:"days"         yaml:"days"`
}

// Day returns the day dated date, if present.
func (m Menu) Day(date string) (Day, bool) {
	for _, d := range m.Days {
		if d.Date == date {
			return d, true
		}
	}

	return Day{}, false
}
