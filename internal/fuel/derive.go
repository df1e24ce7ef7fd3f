// Package fuel contains the pure computation core for fuel purchase records:
// the derivation of financial/consumption fields from raw odometer and
// purchase inputs, and the tank-capacity anomaly classification.
//
// Everything in this package is side-effect free so the derivation logic can
// be tested exhaustively without a database. Services call Derive at the
// boundary of every fuel-entry mutation and store the full result alongside
// the raw inputs; derived values are never recomputed lazily.
package fuel

// Inputs are the raw operator-entered values of a fuel purchase. Missing or
// unparsable values are expected to arrive as zero (the transport layer binds
// absent JSON numbers to zero), which Derive treats as valid input.
type Inputs struct {
	PreviousKm      int     // odometer at the previous purchase
	CurrentKm       int     // odometer at this purchase
	UnitPrice       float64 // price per liter
	AmountPaid      float64 // total paid for purchased fuel
	AmountRecharged float64 // amount credited onto the fuel account
	PriorBalance    float64 // account balance before this transaction
	TicketBalance   float64 // balance printed on the station ticket
}

// Derived is the complete computed field set for a fuel purchase.
type Derived struct {
	DistanceKm        int     // CurrentKm - PreviousKm, kept raw (may be negative)
	QuantityPurchased float64 // liters bought
	QuantityRecharged float64 // liters equivalent of the recharge
	CostPerKm         float64
	ConsumptionPer100 float64 // liters per 100 km
	NewBalance        float64
	RemainingQuantity float64 // liters still available on the account
	RangePurchased    float64 // km the purchased quantity covers at this consumption
	RangeRemaining    float64 // km the remaining quantity covers at this consumption
	BalanceDiff       float64 // TicketBalance - PriorBalance, reconciliation only
}

// Derive computes every derived field from the raw inputs. It is total: it
// never fails, and divisions guard on their denominators.
//
// An odometer rollback produces a negative DistanceKm which is stored as-is;
// only the consumption-dependent fields (cost per km, consumption, ranges)
// are zeroed when the distance is not strictly positive.
func Derive(in Inputs) Derived {
	d := Derived{
		DistanceKm:  in.CurrentKm - in.PreviousKm,
		NewBalance:  in.PriorBalance + in.AmountRecharged - in.AmountPaid,
		BalanceDiff: in.TicketBalance - in.PriorBalance,
	}

	if in.UnitPrice > 0 {
		d.QuantityPurchased = in.AmountPaid / in.UnitPrice
		d.QuantityRecharged = in.AmountRecharged / in.UnitPrice
		d.RemainingQuantity = d.NewBalance / in.UnitPrice
	}

	if d.DistanceKm > 0 {
		d.CostPerKm = in.AmountPaid / float64(d.DistanceKm)
		d.ConsumptionPer100 = d.QuantityPurchased * 100 / float64(d.DistanceKm)
	}

	if d.ConsumptionPer100 > 0 {
		d.RangePurchased = d.QuantityPurchased * 100 / d.ConsumptionPer100
		d.RangeRemaining = d.RemainingQuantity * 100 / d.ConsumptionPer100
	}

	return d
}
