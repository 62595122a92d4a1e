// Package entities contains core storefront entities.
package entities

import (
	"regexp"
	"strings"
)

// DefaultDialCode is preselected in phone inputs.
const DefaultDialCode = "+58"

// Country is an entry of the phone dial-code selector.
type Country struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	DialCode string `json:"dialCode"`
	Flag     string `json:"flag"`
}

var countries = []Country{
	{Code: "VE", Name: "Venezuela", DialCode: "+58"},
	{Code: "CO", Name: "Colombia", DialCode: "+57"},
	{Code: "MX", Name: "México", DialCode: "+52"},
	{Code: "AR", Name: "Argentina", DialCode: "+54"},
	{Code: "CL", Name: "Chile", DialCode: "+56"},
	{Code: "PE", Name: "Perú", DialCode: "+51"},
	{Code: "EC", Name: "Ecuador", DialCode: "+593"},
	{Code: "BO", Name: "Bolivia", DialCode: "+591"},
	{Code: "PY", Name: "Paraguay", DialCode: "+595"},
	{Code: "UY", Name: "Uruguay", DialCode: "+598"},
	{Code: "BR", Name: "Brasil", DialCode: "+55"},
	{Code: "PA", Name: "Panamá", DialCode: "+507"},
	{Code: "CR", Name: "Costa Rica", DialCode: "+506"},
	{Code: "GT", Name: "Guatemala", DialCode: "+502"},
	{Code: "HN", Name: "Honduras", DialCode: "+504"},
	{Code: "NI", Name: "Nicaragua", DialCode: "+505"},
	{Code: "SV", Name: "El Salvador", DialCode: "+503"},
	{Code: "DO", Name: "República Dominicana", DialCode: "+1"},
	{Code: "CU", Name: "Cuba", DialCode: "+53"},
	{Code: "US", Name: "Estados Unidos", DialCode: "+1"},
	{Code: "ES", Name: "España", DialCode: "+34"},
	{Code: "IT", Name: "Italia", DialCode: "+39"},
	{Code: "FR", Name: "Francia", DialCode: "+33"},
	{Code: "DE", Name: "Alemania", DialCode: "+49"},
	{Code: "GB", Name: "Reino Unido", DialCode: "+44"},
	{Code: "CA", Name: "Canadá", DialCode: "+1"},
}

// Countries returns the dial-code catalogue with flag emojis filled in.
func Countries() []Country {
	out := make([]Country, len(countries))
	for i, c := range countries {
		c.Flag = flagEmoji(c.Code)
		out[i] = c
	}
	return out
}

// regional indicator symbols start at U+1F1E6 for 'A'
func flagEmoji(code string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(code) {
		sb.WriteRune(r + 127397)
	}
	return sb.String()
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FullPhone joins a dial code with the digits of a local number.
func FullPhone(dialCode, phone string) string {
	if strings.TrimSpace(dialCode) == "" {
		dialCode = DefaultDialCode
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	return strings.TrimSpace(dialCode) + digits.String()
}

// DialCode resolves a selector value: a "+NN" dial code is returned as is,
// an ISO country code is looked up, anything else yields DefaultDialCode.
func DialCode(code string) string {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "+") {
		return code
	}
	for _, c := range countries {
		if strings.EqualFold(c.Code, code) {
			return c.DialCode
		}
	}
	return DefaultDialCode
}
