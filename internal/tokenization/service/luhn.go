package service

// IsLuhnValid reports whether number is all digits, at least two long, and passes
// the Luhn checksum.
func IsLuhnValid(number string) bool {
	if len(number) < 2 {
		return false
	}

	sum := 0
	for i := 0; i < len(number); i++ {
		c := number[len(number)-1-i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if i%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}

	return sum%10 == 0
}
