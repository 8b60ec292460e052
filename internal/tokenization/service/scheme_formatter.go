package service

import (
	"errors"
	"fmt"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

const (
	// DefaultTokenLength is used when the value cannot give its length to the token.
	DefaultTokenLength = 16

	// AutoTokenLength is the fixed length of the AUTO schemes.
	AutoTokenLength = 32

	ssnLength      = 9
	minRandomChars = 4
)

// ErrUnsupportedScheme is returned for codes outside the standard scheme table.
var ErrUnsupportedScheme = errors.New("unsupported token scheme code")

type schemeFormat struct {
	generator   *charsetGenerator
	uuid        TokenGenerator
	keepLeading int
	keepTrail   int
	fixedLength int
}

// SchemeFormatter issues tokens shaped after a scheme code of the standard table.
type SchemeFormatter struct {
	formats map[tokenizationDomain.SchemeCode]schemeFormat
}

// NewSchemeFormatter creates a formatter for every scheme of StandardSchemes.
func NewSchemeFormatter() *SchemeFormatter {
	numeric := NewNumericGenerator().(*charsetGenerator)
	alnum := NewAlphanumericGenerator().(*charsetGenerator)
	ascii := NewASCIIGenerator().(*charsetGenerator)
	code := tokenizationDomain.StandardSchemes

	return &SchemeFormatter{formats: map[tokenizationDomain.SchemeCode]schemeFormat{
		code[tokenizationDomain.SchemeSixTokenFour]:       {generator: numeric, keepLeading: 6, keepTrail: 4},
		code[tokenizationDomain.SchemeFourTokenFour]:      {generator: numeric, keepLeading: 4, keepTrail: 4},
		code[tokenizationDomain.SchemeTokenFour]:          {generator: numeric, keepTrail: 4},
		code[tokenizationDomain.SchemeGUID]:               {uuid: NewUUIDGenerator(false)},
		code[tokenizationDomain.SchemeSSN]:                {generator: numeric, keepTrail: 4, fixedLength: ssnLength},
		code[tokenizationDomain.SchemeNGUID]:              {uuid: NewUUIDGenerator(true)},
		code[tokenizationDomain.SchemeNTokenFour]:         {generator: numeric, keepTrail: 4},
		code[tokenizationDomain.SchemeNToken]:             {generator: numeric},
		code[tokenizationDomain.SchemeSixANTokenFour]:     {generator: alnum, keepLeading: 6, keepTrail: 4},
		code[tokenizationDomain.SchemeFourANTokenFour]:    {generator: alnum, keepLeading: 4, keepTrail: 4},
		code[tokenizationDomain.SchemeANTokenFour]:        {generator: alnum, keepTrail: 4},
		code[tokenizationDomain.SchemeANToken]:            {generator: alnum},
		code[tokenizationDomain.SchemeANTokenAuto]:        {generator: alnum, fixedLength: AutoTokenLength},
		code[tokenizationDomain.SchemeASCIITokenFour]:     {generator: ascii, keepTrail: 4},
		code[tokenizationDomain.SchemeASCIIToken]:         {generator: ascii},
		code[tokenizationDomain.SchemeSixASCIITokenFour]:  {generator: ascii, keepLeading: 6, keepTrail: 4},
		code[tokenizationDomain.SchemeFourASCIITokenFour]: {generator: ascii, keepLeading: 4, keepTrail: 4},
		code[tokenizationDomain.SchemeASCIITokenAuto]:     {generator: ascii, fixedLength: AutoTokenLength},
	}}
}

// Format issues a new token for value.
//
// Leading and trailing characters are preserved only when value is made entirely of the
// scheme's characters and leaves room for at least four random ones; the token then has
// the length of value. Otherwise the token is random with DefaultTokenLength characters.
func (f *SchemeFormatter) Format(value string, scheme tokenizationDomain.SchemeCode) (string, error) {
	format, ok := f.formats[scheme]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedScheme, scheme)
	}

	if format.uuid != nil {
		return format.uuid.Generate(0)
	}

	keep := format.keepLeading + format.keepTrail
	length := format.fixedLength
	if length == 0 {
		length = len(value)
	}

	preserve := len(value) >= keep+minRandomChars &&
		len(value) <= MaxTokenLength &&
		format.generator.accepts(value) &&
		(format.fixedLength == 0 || len(value) == format.fixedLength)

	if !preserve {
		if format.fixedLength == 0 {
			length = DefaultTokenLength
		}
		return format.generator.Generate(length)
	}

	body, err := format.generator.Generate(length - keep)
	if err != nil {
		return "", err
	}
	return value[:format.keepLeading] + body + value[len(value)-format.keepTrail:], nil
}
