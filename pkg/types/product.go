package types

import "strings"

// Extra holds the numeric measures attached to every product. The json keys
// match the catalog service payload.
type Extra struct {
	Price  float64 `json:"PRI"`
	Stock  float64 `json:"LGA"`
	Volume float64 `json:"VOL"`
}

func (e Extra) IsZero() bool {
	return e.Price == 0 && e.Stock == 0 && e.Volume == 0
}

// Sanitize returns a copy where every measure is finite and >= 0.
func (e Extra) Sanitize() Extra {
	return Extra{
		Price:  SanitizeNumber(e.Price),
		Stock:  SanitizeNumber(e.Stock),
		Volume: SanitizeNumber(e.Volume),
	}
}

type Product struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Extra    Extra  `json:"extra"`
}

func (p *Product) InStock() bool {
	return p.Extra.Stock > 0
}

func (p *Product) LowerName() string {
	return strings.ToLower(p.Name)
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
