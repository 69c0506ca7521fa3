package orders

import "fmt"

// Stage is one phase of the order workflow.
type Stage int

const (
	StageInput Stage = iota
	StageLinkGenerated
	StageCustomerReview
	StageConfirmed
)

var validNext = map[Stage]map[Stage]bool{
	StageInput:          {StageLinkGenerated: true},
	StageLinkGenerated:  {StageCustomerReview: true},
	StageCustomerReview: {StageConfirmed: true},
	StageConfirmed:      {},
}

// CanTransition reports whether from -> to is a forward transition. Reset to
// StageInput is always allowed and is not listed here.
func CanTransition(from, to Stage) bool {
	return validNext[from][to]
}

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageLinkGenerated:
		return "link_generated"
	case StageCustomerReview:
		return "customer_review"
	case StageConfirmed:
		return "confirmed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func ParseStage(s string) (Stage, error) {
	switch s {
	case "input":
		return StageInput, nil
	case "link_generated":
		return StageLinkGenerated, nil
	case "customer_review":
		return StageCustomerReview, nil
	case "confirmed":
		return StageConfirmed, nil
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := validNext[s]; !ok {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
