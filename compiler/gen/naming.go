package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

// ruleset registers the acronyms kept upper-case by Pascal and Camel.
func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// splitWords splits s on underscores and dashes.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// Pascal converts the given name into a PascalCase Go identifier,
// keeping well known acronyms upper-case.
//
//	user_info => UserInfo
//	user_id   => UserID
//	singleLink => SingleLink
func Pascal(s string) string {
	return pascalWords(splitWords(s))
}

// Camel converts the given name into a camelCase Go identifier.
//
//	user_info => userInfo
//	user_id   => userID
//	http_code => httpCode
func Camel(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	first := words[0]
	if _, ok := acronyms[strings.ToUpper(first)]; ok {
		first = strings.ToLower(first)
	} else {
		first = strings.ToLower(first[:1]) + first[1:]
	}
	return first + pascalWords(words[1:])
}

// Title upper-cases the first letter of every word and joins them,
// without acronym handling, as Java and PHP setters expect.
//
//	url        => Url
//	singleLink => SingleLink
//	user_id    => UserId
func Title(s string) string {
	caser := cases.Title(language.English, cases.NoLower)
	words := splitWords(s)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, "")
}

// LowerFirst lower-cases the first letter of s.
//
//	DashboardLink => dashboardLink
//	singleLink    => singleLink
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Snake converts the given name into snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func Snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Escape returns name, or name with suffix appended when name is in
// reserved. The second result reports whether the name was changed.
func Escape(name, suffix string, reserved map[string]struct{}) (string, bool) {
	if _, ok := reserved[name]; ok {
		return name + suffix, true
	}
	return name, false
}

// Words returns a set of the given words, for use with Escape.
func Words(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
