// Package mra implements the MRA (Maintenance Reserve Account) module (§4.8):
// a reserve sized by a look-forward sum of upcoming maintenance capex.
package mra

// ModuleType is the moduleType string MRA instances declare.
const ModuleType = "mra_reserve"

// RequiredBalance is, at each month, the sum of maintenanceCapex over the next
// lookforwardMonths — the reserve target a look-forward maintenance schedule
// requires on hand.
func RequiredBalance(maintenanceCapex []float64, lookforwardMonths int) []float64 {
	n := len(maintenanceCapex)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		end := i + lookforwardMonths
		if end > n {
			end = n
		}
		sum := 0.0
		for j := i; j < end; j++ {
			sum += maintenanceCapex[j]
		}
		out[i] = sum
	}
	return out
}

// Funding is the month-over-month increase in the required balance (the top-up
// the reserve needs that period; zero or negative when the requirement falls).
func Funding(requiredBalance []float64) []float64 {
	n := len(requiredBalance)
	out := make([]float64, n)
	prev := 0.0
	for i := 0; i < n; i++ {
		out[i] = requiredBalance[i] - prev
		prev = requiredBalance[i]
	}
	return out
}
