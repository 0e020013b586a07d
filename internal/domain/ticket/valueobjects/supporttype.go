package valueobjects

import "fmt"

// SupportType classifies what kind of help a ticket asks for.
type SupportType string

const (
	SupportTechnical SupportType = "TECHNICAL"
	SupportBilling   SupportType = "BILLING"
	SupportTraining  SupportType = "TRAINING"
	SupportOther     SupportType = "OTHER"
)

var validSupportTypes = map[SupportType]bool{
	SupportTechnical: true,
	SupportBilling:   true,
	SupportTraining:  true,
	SupportOther:     true,
}

func (s SupportType) String() string {
	return string(s)
}

func (s SupportType) IsValid() bool {
	return validSupportTypes[s]
}

// NewSupportType parses s; an empty string yields TECHNICAL.
func NewSupportType(s string) (SupportType, error) {
	if s == "" {
		return SupportTechnical, nil
	}
	st := SupportType(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid support type: %s", s)
	}
	return st, nil
}
