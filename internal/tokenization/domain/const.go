// Package domain defines the core models of the tokenization gateway: token schemes,
// connection descriptors, action results and the errors shared by every vault provider.
package domain

import (
	"sort"
)

// SchemeCode is the provider-specific numeric code a token scheme resolves to.
type SchemeCode int

// Scheme names accepted by the gateway. Names are vendor identifiers and are matched
// case-sensitively.
const (
	SchemeSixTokenFour       = "sixTOKENfour"
	SchemeFourTokenFour      = "fourTOKENfour"
	SchemeTokenFour          = "TOKENfour"
	SchemeGUID               = "GUID"
	SchemeSSN                = "SSN"
	SchemeNGUID              = "nGUID"
	SchemeNTokenFour         = "nTOKENfour"
	SchemeNToken             = "nTOKEN"
	SchemeSixANTokenFour     = "sixANTOKENfour"
	SchemeFourANTokenFour    = "fourANTOKENfour"
	SchemeANTokenFour        = "ANTOKENfour"
	SchemeANToken            = "ANTOKEN"
	SchemeANTokenAuto        = "ANTOKENAUTO"
	SchemeASCIITokenFour     = "ASCIITOKENfour"
	SchemeASCIIToken         = "ASCIITOKEN"
	SchemeSixASCIITokenFour  = "sixASCIITOKENfour"
	SchemeFourASCIITokenFour = "fourASCIITOKENfour"
	SchemeASCIITokenAuto     = "ASCIITOKENAUTO"

	// DefaultScheme is used when a caller does not name a scheme.
	DefaultScheme = SchemeGUID

	// CreditCardScheme is the fixed scheme of TokenizeFromCreditCardNumber.
	CreditCardScheme = SchemeTokenFour
)

// Provider names known to the static provider registry.
const (
	DefaultProviderName = "TokenEx"
	TestProviderName    = "Test"
	SQLProviderName     = "SQL"
	RedisProviderName   = "Redis"
)

const (
	// MaxPayloadSize is the maximum size of an encoded envelope (64 KB).
	MaxPayloadSize = 65536

	// ActionErrorDelimiter separates code and message in a vault error string.
	ActionErrorDelimiter = " : "

	// NotFoundActionErrorCode is reported by local vaults when a token is absent.
	NotFoundActionErrorCode    = 3000
	NotFoundActionErrorMessage = "Token does not exist"

	// Further local vault action errors.
	InvalidCardActionErrorCode      = 4001
	InvalidCardActionErrorMessage   = "Invalid credit card number"
	InvalidSchemeActionErrorCode    = 4002
	InvalidSchemeActionErrorMessage = "Invalid token scheme"
	VaultFailureActionErrorCode     = 5000
	VaultFailureActionErrorMessage  = "Vault storage failure"
)

// SchemeTable maps scheme names to the codes a provider understands.
type SchemeTable map[string]SchemeCode

// Resolve returns the code registered for name.
func (t SchemeTable) Resolve(name string) (SchemeCode, error) {
	code, ok := t[name]
	if !ok {
		return 0, ErrUnknownScheme
	}
	return code, nil
}

// Names returns the registered scheme names in ascending code order.
func (t SchemeTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return t[names[i]] < t[names[j]]
	})
	return names
}

// StandardSchemes is the TokenEx scheme table. The in-process and storage-backed
// providers accept the same names so callers can switch providers freely.
var StandardSchemes = SchemeTable{
	SchemeSixTokenFour:       1,
	SchemeFourTokenFour:      2,
	SchemeTokenFour:          3,
	SchemeGUID:               4,
	SchemeSSN:                5,
	SchemeNGUID:              6,
	SchemeNTokenFour:         7,
	SchemeNToken:             8,
	SchemeSixANTokenFour:     9,
	SchemeFourANTokenFour:    10,
	SchemeANTokenFour:        11,
	SchemeANToken:            12,
	SchemeANTokenAuto:        13,
	SchemeASCIITokenFour:     14,
	SchemeASCIIToken:         15,
	SchemeSixASCIITokenFour:  16,
	SchemeFourASCIITokenFour: 17,
	SchemeASCIITokenAuto:     18,
}
