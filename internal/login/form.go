package login

import (
	"net/url"
	"strings"
)

// spaces come out of QueryEscape as '+'; a literal '+' is already %2B
var plusToSpace = strings.NewReplacer("+", "%20")

// EscapeComponent percent-encodes a form value so that every reserved
// character, including space, is escaped.
func EscapeComponent(value string) string {
	return plusToSpace.Replace(url.QueryEscape(value))
}

// EncodeForm builds the password-grant request body. Field order is fixed
// and values are passed through without validation.
func EncodeForm(creds Credentials) string {
	var b strings.Builder
	b.WriteString("grant_type=")
	b.WriteString(GrantType)
	b.WriteString("&username=")
	b.WriteString(EscapeComponent(creds.Username))
	b.WriteString("&password=")
	b.WriteString(EscapeComponent(creds.Password))
	return b.String()
}
