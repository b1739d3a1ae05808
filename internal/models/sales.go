package models

// SalesRecord is one (Year, Month, Vehicle_Type) observation of the
// historical automobile sales dataset.
type SalesRecord struct {
	Year                   int
	Month                  string
	VehicleType            string
	AutomobileSales        float64
	AdvertisingExpenditure float64
	UnemploymentRate       float64
	Recession              bool
}

var monthOrder = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// CompareMonths orders month labels by calendar position. Labels outside
// Jan..Dec sort after December, lexicographically.
func CompareMonths(a, b string) int {
	ia, aKnown := monthOrder[a]
	ib, bKnown := monthOrder[b]
	switch {
	case aKnown && bKnown:
		return ia - ib
	case aKnown:
		return -1
	case bKnown:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
