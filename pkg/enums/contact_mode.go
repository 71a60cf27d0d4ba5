package enums

import "fmt"

// ContactMode selects the telephony channel used to reach a counterparty.
type ContactMode string

const (
	ContactModeVoice ContactMode = "voice"
	ContactModeSMS   ContactMode = "sms"
)

var validContactModes = []ContactMode{
	ContactModeVoice,
	ContactModeSMS,
}

// String implements fmt.Stringer.
func (c ContactMode) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactMode.
func (c ContactMode) IsValid() bool {
	for _, candidate := range validContactModes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactMode converts raw input into a ContactMode. Empty input
// defaults to voice, matching the wire contract.
func ParseContactMode(value string) (ContactMode, error) {
	if value == "" {
		return ContactModeVoice, nil
	}
	for _, candidate := range validContactModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact mode %q", value)
}
