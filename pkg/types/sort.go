package types

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func (d SortDirection) Toggle() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func ParseSortDirection(s string) SortDirection {
	if s == string(Descending) {
		return Descending
	}
	return Ascending
}

const (
	ColumnId       = "id"
	ColumnName     = "name"
	ColumnCategory = "category"
	ColumnPrice    = "extra.PRI"
	ColumnStock    = "extra.LGA"
	ColumnVolume   = "extra.VOL"
)

// SortCriteria with an empty Column keeps insertion order.
type SortCriteria struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

func (s SortCriteria) IsSet() bool {
	return s.Column != ""
}

// DefaultDirection is used the first time a column is selected: stock sorts
// high to low, everything else low to high.
func DefaultDirection(column string) SortDirection {
	if column == ColumnStock {
		return Descending
	}
	return Ascending
}
