package scrape

// StallReason classifies a pass that accepted no records.
type StallReason int

const (
	// NoGrowth: a later pass where no containers appeared and the page did not
	// grow beyond the height tolerance.
	NoGrowth StallReason = iota + 1
	// FirstPassNoneAccepted: the first pass found containers but accepted none.
	FirstPassNoneAccepted
	// FirstPassEmpty: the first pass found no containers at all.
	FirstPassEmpty
	// NewContainersRejected: containers appeared but none survived extraction.
	NewContainersRejected
	// ZeroYield: any other pass without accepted records.
	ZeroYield
)

func (r StallReason) String() string {
	switch r {
	case NoGrowth:
		return "no_growth"
	case FirstPassNoneAccepted:
		return "first_pass_none_accepted"
	case FirstPassEmpty:
		return "first_pass_empty"
	case NewContainersRejected:
		return "new_containers_rejected"
	case ZeroYield:
		return "zero_yield"
	}
	return "unknown"
}

// passObservation is what a zero-yield pass saw.
type passObservation struct {
	pass            int
	containers      int
	containersGrew  bool
	heightBefore    int
	heightAfter     int
	heightTolerance int
}

// classifyPass names the stall condition a zero-yield pass falls under.
// Every reason counts toward the stall limit; the distinction is for logs.
func classifyPass(obs passObservation) StallReason {
	if obs.pass <= 1 {
		if obs.containers == 0 {
			return FirstPassEmpty
		}
		return FirstPassNoneAccepted
	}
	if obs.containersGrew {
		return NewContainersRejected
	}
	if obs.heightAfter <= obs.heightBefore+obs.heightTolerance {
		return NoGrowth
	}
	return ZeroYield
}
