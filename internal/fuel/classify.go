package fuel

// Status labels a fuel purchase relative to the vehicle's tank capacity.
type Status string

const (
	// StatusNormal is the default label for a plausible purchase.
	StatusNormal Status = "Normal"
	// StatusOverrun flags a purchase whose quantity exceeds the tank capacity.
	StatusOverrun Status = "Overrun"
)

// OverrunNote is the descriptive flag stored on an entry classified as an
// overrun. A corrected entry that reclassifies as Normal clears it.
const OverrunNote = "abnormal fuel purchase: quantity exceeds declared tank capacity"

// Classify compares the purchased quantity against the vehicle's declared
// tank capacity (0 when unknown). A purchase exactly equal to the capacity is
// Normal; only a strictly greater quantity is an overrun.
func Classify(quantityPurchased, tankCapacity float64) (Status, string) {
	if quantityPurchased > tankCapacity {
		return StatusOverrun, OverrunNote
	}
	return StatusNormal, ""
}
