package auth

import "unicode"

const (
	StrengthWeak   = "Weak"
	StrengthFair   = "Fair"
	StrengthGood   = "Good"
	StrengthStrong = "Strong"

	minPasswordLength = 8
)

type StrengthChecks struct {
	Length    bool `json:"length"`
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Digit     bool `json:"digit"`
	Special   bool `json:"special"`
}

func (c StrengthChecks) passed() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Lowercase, c.Uppercase, c.Digit, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

type PasswordStrength struct {
	Checks StrengthChecks `json:"checks"`
	Score  int            `json:"score"`
	Label  string         `json:"label"`
	Color  string         `json:"color"`
}

// Strength scores password in 20% steps, one per satisfied check.
func Strength(password string) PasswordStrength {
	var checks StrengthChecks
	checks.Length = len([]rune(password)) >= minPasswordLength
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			checks.Lowercase = true
		case unicode.IsUpper(r):
			checks.Uppercase = true
		case unicode.IsDigit(r):
			checks.Digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			checks.Special = true
		}
	}

	score := checks.passed() * 20
	label, color := strengthBucket(score)
	return PasswordStrength{Checks: checks, Score: score, Label: label, Color: color}
}

func strengthBucket(score int) (string, string) {
	switch {
	case score < 40:
		return StrengthWeak, "red"
	case score < 60:
		return StrengthFair, "orange"
	case score < 100:
		return StrengthGood, "yellow"
	default:
		return StrengthStrong, "green"
	}
}

func IsStrong(password string) bool {
	return Strength(password).Label == StrengthStrong
}
