package domain

// Cost converts consumption into a monetary amount at the given tariff.
//
// The same formula runs at two call sites with different tariff inputs:
// ingestion freezes the tariff read at write time into the stored reading,
// while chart aggregation recomputes every bucket with the tariff current at
// query time. After a tariff change the two totals diverge for the same
// interval; both numbers are intentional and each operation documents which
// one it exposes.
func Cost(consumptionKWh, tariffPerKWh float64) float64 {
	return consumptionKWh * tariffPerKWh
}
