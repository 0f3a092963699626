package util

// RedactToken keeps only a short prefix of a bearer value so it can be logged
func RedactToken(token string) string {
	const keep = 8
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "***"
}

// ConditionalString returns valueIfTrue if condition is true, otherwise valueIfFalse
func ConditionalString(condition bool, valueIfTrue, valueIfFalse string) string {
	if condition {
		return valueIfTrue
	}
	return valueIfFalse
}
