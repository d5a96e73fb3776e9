package card

// Type is one of the four capture categories of Go-Stop (광/끗/띠/피).
type Type string

const (
	Gwang Type = "GWANG"
	Kkut  Type = "KKUT"
	Ddi   Type = "DDI"
	Pi    Type = "PI"
)

// Special marks cards that belong to a bonus combination.
type Special string

const (
	HongDan  Special = "HONG_DAN"
	ChoDan   Special = "CHO_DAN"
	ChungDan Special = "CHUNG_DAN"
	Godori   Special = "GODORI"
	BiGwang  Special = "BI_GWANG"
	SsangPi  Special = "SSANG_PI"
)

// Card is an immutable catalog entry. The server only ever names cards
// by their Name string; the client maps them through the catalog.
type Card struct {
	Name    string  `json:"name"`
	Month   int     `json:"month"` // 1..12
	Type    Type    `json:"type"`
	Special Special `json:"special,omitempty"`
}

// ValidType reports whether a wire string is one of the four capture
// categories. Server payload keys are checked with this before they are
// trusted.
func ValidType(s string) bool {
	switch Type(s) {
	case Gwang, Kkut, Ddi, Pi:
		return true
	}
	return false
}

// Lookup resolves a card name against the catalog.
func Lookup(name string) (Card, bool) {
	c, ok := catalog[name]
	return c, ok
}

// Count is the full deck size.
const Count = 48

// catalog holds all 48 hwatu cards, four per month.
var catalog = map[string]Card{
	// January (pine)
	"JAN_1": {Name: "JAN_1", Month: 1, Type: Gwang},
	"JAN_2": {Name: "JAN_2", Month: 1, Type: Ddi, Special: HongDan},
	"JAN_3": {Name: "JAN_3", Month: 1, Type: Pi},
	"JAN_4": {Name: "JAN_4", Month: 1, Type: Pi},

	// February (plum)
	"FEB_1": {Name: "FEB_1", Month: 2, Type: Kkut, Special: Godori},
	"FEB_2": {Name: "FEB_2", Month: 2, Type: Ddi, Special: HongDan},
	"FEB_3": {Name: "FEB_3", Month: 2, Type: Pi},
	"FEB_4": {Name: "FEB_4", Month: 2, Type: Pi},

	// March (cherry)
	"MAR_1": {Name: "MAR_1", Month: 3, Type: Gwang},
	"MAR_2": {Name: "MAR_2", Month: 3, Type: Ddi, Special: HongDan},
	"MAR_3": {Name: "MAR_3", Month: 3, Type: Pi},
	"MAR_4": {Name: "MAR_4", Month: 3, Type: Pi},

	// April (wisteria)
	"APR_1": {Name: "APR_1", Month: 4, Type: Kkut, Special: Godori},
	"APR_2": {Name: "APR_2", Month: 4, Type: Ddi, Special: ChoDan},
	"APR_3": {Name: "APR_3", Month: 4, Type: Pi},
	"APR_4": {Name: "APR_4", Month: 4, Type: Pi},

	// May (iris)
	"MAY_1": {Name: "MAY_1", Month: 5, Type: Kkut},
	"MAY_2": {Name: "MAY_2", Month: 5, Type: Ddi, Special: ChoDan},
	"MAY_3": {Name: "MAY_3", Month: 5, Type: Pi},
	"MAY_4": {Name: "MAY_4", Month: 5, Type: Pi},

	// June (peony)
	"JUN_1": {Name: "JUN_1", Month: 6, Type: Kkut},
	"JUN_2": {Name: "JUN_2", Month: 6, Type: Ddi, Special: ChungDan},
	"JUN_3": {Name: "JUN_3", Month: 6, Type: Pi},
	"JUN_4": {Name: "JUN_4", Month: 6, Type: Pi},

	// July (bush clover)
	"JUL_1": {Name: "JUL_1", Month: 7, Type: Kkut},
	"JUL_2": {Name: "JUL_2", Month: 7, Type: Ddi, Special: ChoDan},
	"JUL_3": {Name: "JUL_3", Month: 7, Type: Pi},
	"JUL_4": {Name: "JUL_4", Month: 7, Type: Pi},

	// August (moon)
	"AUG_1": {Name: "AUG_1", Month: 8, Type: Gwang},
	"AUG_2": {Name: "AUG_2", Month: 8, Type: Kkut, Special: Godori},
	"AUG_3": {Name: "AUG_3", Month: 8, Type: Pi},
	"AUG_4": {Name: "AUG_4", Month: 8, Type: Pi},

	// September (chrysanthemum)
	"SEP_1": {Name: "SEP_1", Month: 9, Type: Ddi, Special: ChungDan},
	"SEP_2": {Name: "SEP_2", Month: 9, Type: Pi},
	"SEP_3": {Name: "SEP_3", Month: 9, Type: Pi},
	"SEP_4": {Name: "SEP_4", Month: 9, Type: Kkut},

	// October (maple)
	"OCT_1": {Name: "OCT_1", Month: 10, Type: Kkut},
	"OCT_2": {Name: "OCT_2", Month: 10, Type: Ddi, Special: ChungDan},
	"OCT_3": {Name: "OCT_3", Month: 10, Type: Pi},
	"OCT_4": {Name: "OCT_4", Month: 10, Type: Pi},

	// November (paulownia)
	"NOV_1": {Name: "NOV_1", Month: 11, Type: Gwang},
	"NOV_2": {Name: "NOV_2", Month: 11, Type: Pi},
	"NOV_3": {Name: "NOV_3", Month: 11, Type: Pi},
	"NOV_4": {Name: "NOV_4", Month: 11, Type: Pi, Special: SsangPi},

	// December (rain)
	"DEC_1": {Name: "DEC_1", Month: 12, Type: Gwang, Special: BiGwang},
	"DEC_2": {Name: "DEC_2", Month: 12, Type: Kkut},
	"DEC_3": {Name: "DEC_3", Month: 12, Type: Ddi},
	"DEC_4": {Name: "DEC_4", Month: 12, Type: Pi, Special: SsangPi},
}
