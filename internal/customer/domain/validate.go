package domain

import "strings"

// ValidateCPF checks the CPF's two verification digits. Input may carry the
// usual punctuation (000.000.000-00).
func ValidateCPF(value string) bool {
	digits := onlyDigits(value)
	if len(digits) != 11 {
		return false
	}

	// CPFs made of one repeated digit pass the checksum but are invalid.
	repeated := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	if checkDigit(digits[:9], 10) != int(digits[9]-'0') {
		return false
	}
	return checkDigit(digits[:10], 11) == int(digits[10]-'0')
}

func checkDigit(digits string, weight int) int {
	sum := 0
	for _, r := range digits {
		sum += int(r-'0') * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// ValidatePhone accepts Brazilian landline and mobile numbers, with or
// without punctuation and the country prefix.
func ValidatePhone(value string) bool {
	digits := onlyDigits(value)
	digits = strings.TrimPrefix(digits, "55")
	return len(digits) == 10 || len(digits) == 11
}

// ValidateEmail is a shape check only; deliverability is not our problem.
func ValidateEmail(value string) bool {
	value = strings.TrimSpace(value)
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}
	domain := value[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
