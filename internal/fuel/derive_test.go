package fuel

import (
	"math"
	"testing"
)

const eps = 1e-9

func feq(a, b float64) bool { return math.Abs(a-b) < eps }

func TestDerive_FullPurchase(t *testing.T) {
	d := Derive(Inputs{
		PreviousKm:      10000,
		CurrentKm:       10500,
		UnitPrice:       2.0,
		AmountPaid:      100.0,
		AmountRecharged: 300.0,
		PriorBalance:    50.0,
		TicketBalance:   80.0,
	})

	if d.DistanceKm != 500 {
		t.Fatalf("DistanceKm = %d; want 500", d.DistanceKm)
	}
	if !feq(d.QuantityPurchased, 50) {
		t.Fatalf("QuantityPurchased = %v; want 50", d.QuantityPurchased)
	}
	if !feq(d.QuantityRecharged, 150) {
		t.Fatalf("QuantityRecharged = %v; want 150", d.QuantityRecharged)
	}
	if !feq(d.CostPerKm, 0.2) {
		t.Fatalf("CostPerKm = %v; want 0.2", d.CostPerKm)
	}
	// consumption_per_100 == quantity_purchased * 100 / distance
	if !feq(d.ConsumptionPer100, 10) {
		t.Fatalf("ConsumptionPer100 = %v; want 10", d.ConsumptionPer100)
	}
	if !feq(d.NewBalance, 250) { // 50 + 300 - 100
		t.Fatalf("NewBalance = %v; want 250", d.NewBalance)
	}
	if !feq(d.RemainingQuantity, 125) {
		t.Fatalf("RemainingQuantity = %v; want 125", d.RemainingQuantity)
	}
	if !feq(d.RangePurchased, 500) {
		t.Fatalf("RangePurchased = %v; want 500", d.RangePurchased)
	}
	if !feq(d.RangeRemaining, 1250) {
		t.Fatalf("RangeRemaining = %v; want 1250", d.RangeRemaining)
	}
	// Reconciliation field is independent of the purchase math.
	if !feq(d.BalanceDiff, 30) {
		t.Fatalf("BalanceDiff = %v; want 30", d.BalanceDiff)
	}
}

func TestDerive_ConsumptionIdentity(t *testing.T) {
	// For unit_price > 0 and distance > 0 the identity must hold exactly
	// (within floating tolerance) across a spread of inputs.
	cases := []Inputs{
		{PreviousKm: 0, CurrentKm: 1, UnitPrice: 0.01, AmountPaid: 3},
		{PreviousKm: 100, CurrentKm: 950, UnitPrice: 1.75, AmountPaid: 61.25},
		{PreviousKm: 99999, CurrentKm: 100345, UnitPrice: 3.2, AmountPaid: 500},
	}
	for _, in := range cases {
		d := Derive(in)
		want := d.QuantityPurchased * 100 / float64(d.DistanceKm)
		if !feq(d.ConsumptionPer100, want) {
			t.Fatalf("ConsumptionPer100 = %v; want %v (inputs %+v)", d.ConsumptionPer100, want, in)
		}
	}
}

func TestDerive_ZeroUnitPrice(t *testing.T) {
	d := Derive(Inputs{PreviousKm: 0, CurrentKm: 100, UnitPrice: 0, AmountPaid: 500, AmountRecharged: 200, PriorBalance: 10})
	if d.QuantityPurchased != 0 || d.QuantityRecharged != 0 || d.RemainingQuantity != 0 {
		t.Fatalf("quantities must be 0 when unit price <= 0, got %+v", d)
	}
	// Balance math does not depend on the unit price.
	if !feq(d.NewBalance, 10+200-500) {
		t.Fatalf("NewBalance = %v; want -290", d.NewBalance)
	}
}

func TestDerive_NegativeDistancePassThrough(t *testing.T) {
	// Odometer rollback: the raw negative distance is stored, and every
	// consumption-dependent field is zeroed.
	d := Derive(Inputs{PreviousKm: 5000, CurrentKm: 4200, UnitPrice: 2, AmountPaid: 80})
	if d.DistanceKm != -800 {
		t.Fatalf("DistanceKm = %d; want -800 (no clamping)", d.DistanceKm)
	}
	if d.CostPerKm != 0 || d.ConsumptionPer100 != 0 || d.RangePurchased != 0 || d.RangeRemaining != 0 {
		t.Fatalf("consumption-dependent fields must be 0 for non-positive distance, got %+v", d)
	}
	if !feq(d.QuantityPurchased, 40) {
		t.Fatalf("QuantityPurchased = %v; want 40 (independent of distance)", d.QuantityPurchased)
	}
}

func TestDerive_ZeroDistance(t *testing.T) {
	d := Derive(Inputs{PreviousKm: 300, CurrentKm: 300, UnitPrice: 1, AmountPaid: 10})
	if d.DistanceKm != 0 || d.CostPerKm != 0 || d.ConsumptionPer100 != 0 {
		t.Fatalf("zero distance must zero the per-distance fields, got %+v", d)
	}
}

func TestDerive_AllZeroInputsIsTotal(t *testing.T) {
	d := Derive(Inputs{})
	if d != (Derived{}) {
		t.Fatalf("Derive(zero) = %+v; want zero value", d)
	}
}

func TestClassify(t *testing.T) {
	// Exactly at capacity is Normal; strictly above is an overrun.
	if st, note := Classify(60, 60); st != StatusNormal || note != "" {
		t.Fatalf("Classify(60, 60) = (%q, %q); want Normal with no note", st, note)
	}
	if st, note := Classify(60.0001, 60); st != StatusOverrun || note != OverrunNote {
		t.Fatalf("Classify(60.0001, 60) = (%q, %q); want Overrun with note", st, note)
	}
	// Unknown capacity defaults to 0: any positive purchase is an overrun.
	if st, _ := Classify(1, 0); st != StatusOverrun {
		t.Fatalf("Classify(1, 0) = %q; want Overrun", st)
	}
	if st, _ := Classify(0, 0); st != StatusNormal {
		t.Fatalf("Classify(0, 0) = %q; want Normal", st)
	}
}
