// Package oneshot implements the single-fire alert state machine shared by
// every alert producer in the application (mileage thresholds, document
// expiries, budget overruns).
//
// Each tracked key (a vehicle/category pair, a compliance document, a monthly
// budget) carries a State. An alert may fire only while the state is NotDue;
// firing moves it to Pending, where it stays until an explicit reset event
// (maintenance accepted, document renewed, forecast revised) arms it again.
// This gives the "at most one alert per crossing" guarantee as a pure
// property, independent of persistence.
package oneshot

// State is the persisted alert state for a tracked key.
type State string

const (
	// StateNotDue means no alert is outstanding; the next condition match fires.
	StateNotDue State = "not_due"
	// StatePending means an alert has fired and no reset has occurred since.
	StatePending State = "pending"
)

// normalize maps unknown/legacy values (including the empty string for rows
// created before the column existed) to StateNotDue.
func normalize(s State) State {
	if s == StatePending {
		return StatePending
	}
	return StateNotDue
}

// Fire evaluates the machine for one observation of the triggering condition.
// It returns whether an alert should be emitted now and the next state.
//
// An alert fires exactly when the condition holds and the state is NotDue.
// While Pending, further condition matches are absorbed silently.
func Fire(s State, conditionMet bool) (fire bool, next State) {
	s = normalize(s)
	if !conditionMet {
		return false, s
	}
	if s == StatePending {
		return false, StatePending
	}
	return true, StatePending
}

// Reset returns the armed state. Callers invoke it on the explicit corrective
// action for their key (service completion, renewal, forecast revision).
func Reset() State { return StateNotDue }

// IsPending reports whether an alert is outstanding for the given state.
func IsPending(s State) bool { return normalize(s) == StatePending }
