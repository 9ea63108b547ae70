package report

// Check kinds.
const (
	KindWrite  = "write"
	KindExpect = "expect"
)

// Suite captures the results of one run over a vector suite.
type Suite struct {
	GeneratedAt    string `json:"generated_at"`
	AOIUnitVersion string `json:"aoiunit_version,omitempty"`
	AOI            string `json:"aoi"`
	Tag            string `json:"tag"`
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	Cases          []Case `json:"cases"`
}

// Case is the outcome of a single test case.
type Case struct {
	Name   string  `json:"name"`
	Pass   bool    `json:"pass"`
	Error  string  `json:"error,omitempty"`
	Checks []Check `json:"checks,omitempty"`
}

// Check is one written or expected parameter value.
// For writes, Observed is the readback after the write.
type Check struct {
	Kind     string `json:"kind"`
	Param    string `json:"param"`
	Expected string `json:"expected"`
	Observed string `json:"observed"`
	Pass     bool   `json:"pass"`
}

// NewSuite starts an empty result set.
func NewSuite(aoi, tag string) *Suite {
	return &Suite{
		GeneratedAt: FormatTimestamp(),
		AOI:         aoi,
		Tag:         tag,
	}
}

// Add appends a finished case and updates the counts.
func (s *Suite) Add(c Case) {
	if c.Pass {
		s.Passed++
	} else {
		s.Failed++
	}
	s.Cases = append(s.Cases, c)
}

// OK reports whether every case passed.
func (s *Suite) OK() bool {
	return s.Failed == 0
}

// Failures returns the failed checks of a case.
func (c Case) Failures() []Check {
	var out []Check
	for _, ch := range c.Checks {
		if !ch.Pass {
			out = append(out, ch)
		}
	}
	return out
}
