package kernel

// Outcome is the result of applying a single extrinsic.
type Outcome struct {
	// The position of the extrinsic in its block.
	Index int `json:"index"`

	// The caller of the extrinsic.
	Caller AccountID `json:"caller"`

	// The module and call that have been applied.
	Module string `json:"module"`
	Call   string `json:"call"`

	// The error message if the extrinsic failed.
	Error string `json:"error,omitempty"`

	// The original error. It is not retained by the journal.
	Err error `json:"-"`
}

// Failed returns whether the extrinsic failed.
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// Receipt records the outcomes of all extrinsics of an executed block.
type Receipt struct {
	Block    BlockNumber `json:"block"`
	Outcomes []Outcome   `json:"outcomes"`
}

// Failures returns the number of failed extrinsics.
func (r Receipt) Failures() int {
	var n int
	for _, outcome := range r.Outcomes {
		if outcome.Failed() {
			n++
		}
	}

	return n
}

func (r Receipt) detach() Receipt {
	if r.Outcomes == nil {
		return r
	}

	outcomes := make([]Outcome, len(r.Outcomes))
	for i, outcome := range r.Outcomes {
		outcome.Err = nil
		outcomes[i] = outcome
	}

	r.Outcomes = outcomes

	return r
}
