// Package emission implements the Tier 1-4 emission-estimation
// methodologies of the integrated environmental statute, plus the simplified
// single-substance forms. All amounts are kg/year in float64.
package emission

// StatusValid is the reading status code accepted by the continuous tier.
const StatusValid = 0

// halfHourFactor converts an hourly-flow reading sampled on the half hour.
const halfHourFactor = 0.5

// ContinuousReading is one TMS (tele-monitoring system) sample.
type ContinuousReading struct {
	// Concentration in mg/Sm3.
	Concentration float64
	// FlowRate in Sm3/hr.
	FlowRate float64
	// ActualO2 is the measured oxygen concentration in percent.
	ActualO2 float64
	// Status is the instrument status code; only StatusValid readings count.
	Status int
}

// PeriodicReading is one self-measurement campaign entry.
type PeriodicReading struct {
	Concentration  float64 // mg/Sm3, campaign average
	FlowRate       float64 // Sm3/hr, campaign average
	OperatingHours float64
}

// MassBalanceRow is one process-level material balance.
type MassBalanceRow struct {
	Input     float64 // kg
	Recovered float64 // kg
	Destroyed float64 // kg
}

// FactorRow is one activity/emission-factor pairing.
type FactorRow struct {
	Activity          float64 // activity units
	Factor            float64 // kg per activity unit
	ControlEfficiency float64 // percent, 0-100
}

// Tier1Continuous sums continuous-monitoring emissions. Readings whose status
// code is not StatusValid are dropped. When standardO2 is non-nil, an oxygen
// correction m*(21-std)/(21-actual) applies, but only to readings measured
// below 21% oxygen.
func Tier1Continuous(readings []ContinuousReading, standardO2 *float64) float64 {
	total := 0.0
	for _, r := range readings {
		if r.Status != StatusValid {
			continue
		}
		corrected := r.Concentration
		if standardO2 != nil && r.ActualO2 < 21 {
			corrected = r.Concentration * (21 - *standardO2) / (21 - r.ActualO2)
		}
		total += corrected * r.FlowRate * 1e-6 * halfHourFactor
	}
	return total
}

// Tier2Periodic sums periodic self-measurement emissions.
func Tier2Periodic(readings []PeriodicReading) float64 {
	total := 0.0
	for _, r := range readings {
		total += r.Concentration * r.FlowRate * r.OperatingHours * 1e-6
	}
	return total
}

// Tier3MassBalance sums mass-balance emissions. Each row is floored at zero
// before summation; a negative row never offsets a positive one.
func Tier3MassBalance(rows []MassBalanceRow) float64 {
	total := 0.0
	for _, r := range rows {
		if e := r.Input - r.Recovered - r.Destroyed; e > 0 {
			total += e
		}
	}
	return total
}

// Tier4EmissionFactor sums emission-factor emissions. The aggregate is
// floored at zero.
func Tier4EmissionFactor(rows []FactorRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Activity * r.Factor * (1 - r.ControlEfficiency/100)
	}
	if total < 0 {
		return 0
	}
	return total
}

// SimpleMassBalance is the single-substance mass-balance form.
func SimpleMassBalance(input, recovered, destroyed float64) float64 {
	e := input - recovered - destroyed
	if e < 0 {
		return 0
	}
	return e
}

// SimpleEmissionFactor is the single-substance emission-factor form.
func SimpleEmissionFactor(activity, factor, controlEfficiency float64) float64 {
	e := activity * factor * (1 - controlEfficiency/100)
	if e < 0 {
		return 0
	}
	return e
}
