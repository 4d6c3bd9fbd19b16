package models

// StrikeRecord represents one row of an option chain: the call and put side
// of a single strike price. OI change fields are signed deltas against the
// previous observation (positive = fresh open interest added).
type StrikeRecord struct {
	Strike       float64 `json:"strike" db:"strike"`
	CallOI       int64   `json:"call_oi" db:"call_oi"`
	PutOI        int64   `json:"put_oi" db:"put_oi"`
	CallVolume   int64   `json:"call_volume" db:"call_volume"`
	PutVolume    int64   `json:"put_volume" db:"put_volume"`
	CallIV       float64 `json:"call_iv" db:"call_iv"`
	PutIV        float64 `json:"put_iv" db:"put_iv"`
	CallLTP      float64 `json:"call_ltp" db:"call_ltp"`
	PutLTP       float64 `json:"put_ltp" db:"put_ltp"`
	CallOIChange int64   `json:"call_change_oi" db:"call_change_oi"`
	PutOIChange  int64   `json:"put_change_oi" db:"put_change_oi"`
}

// OptionChainSnapshot is a point-in-time view of an option chain for one
// symbol and expiry. Strikes must be unique and SpotPrice positive; the
// analytics engine sorts strikes ascending before use.
type OptionChainSnapshot struct {
	Symbol    string         `json:"symbol"`
	SpotPrice float64        `json:"spot_price"`
	Strikes   []StrikeRecord `json:"strikes"`
}
