package domain

import (
	"github.com/shopspring/decimal"

	coindomain "numis/console/internal/coin/domain"
)

// Summary is the owner's collection overview.
type Summary struct {
	TotalCoins          int                `json:"total_coins"`
	TotalCountries      int                `json:"total_countries"`
	TotalOriginals      int                `json:"total_originals"`
	TotalReplicas       int                `json:"total_replicas"`
	TotalEstimatedValue decimal.Decimal    `json:"total_estimated_value"`
	ByCountry           []CountryCount     `json:"by_country"`
	ByYear              []YearCount        `json:"by_year"`
	ByOriginality       []OriginalityCount `json:"by_originality"`
}

// Unknown is the number of coins neither original nor replica.
func (s *Summary) Unknown() int {
	n := s.TotalCoins - s.TotalOriginals - s.TotalReplicas
	if n < 0 {
		return 0
	}
	return n
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type OriginalityCount struct {
	Originality coindomain.Originality `json:"originality"`
	Count       int                    `json:"count"`
}
