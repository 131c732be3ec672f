package domain

// SymbolInfo describes the contract terms and current quote of a tradable
// symbol as reported by the market gateway.
type SymbolInfo struct {
	Name         string
	Point        float64 // Smallest price increment
	TickValue    float64 // Account-currency value of one point per lot
	ContractSize float64
	VolumeMin    float64 // Minimum order volume in lots
	VolumeMax    float64 // Maximum order volume in lots
	VolumeStep   float64 // Volume granularity in lots
	Bid          float64
	Ask          float64
	SpreadPoints float64 // Current spread expressed in points
	Digits       int
}

// Spread returns the ask/bid distance in points, preferring the gateway
// figure when it is present.
func (s SymbolInfo) Spread() float64 {
	if s.SpreadPoints > 0 {
		return s.SpreadPoints
	}
	if s.Point > 0 && s.Ask > s.Bid {
		return (s.Ask - s.Bid) / s.Point
	}
	return 0
}
