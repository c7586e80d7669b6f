package types

type InstrumentType string

const (
	InstrumentTypeStock    InstrumentType = "ACCIONES"
	InstrumentTypeCurrency InstrumentType = "MONEDA"
)

// Instrument is reference data owned by the instruments table; the core only
// ever reads it.
type Instrument struct {
	Id     int64          `json:"id"`
	Ticker string         `json:"ticker"`
	Name   string         `json:"name"`
	Type   InstrumentType `json:"type"`
}
