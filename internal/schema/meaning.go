package schema

import (
	"strings"
	"unicode"
)

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone", "mobile": "phone",
	"pwd": "password", "passwd": "password", "pw": "password",
	"zip": "zipcode", "post": "zipcode", "postal": "zipcode",
	"usr": "user", "emp": "employee", "dob": "birthdate", "birth": "birthdate",
	"ssn": "nationalid", "tckn": "nationalid", "nin": "nationalid",
	"iban": "bankaccount", "acct": "account", "cc": "creditcard", "card": "creditcard",
	"lat": "latitude", "lng": "longitude", "lon": "longitude",
	"ip": "ip", "mail": "email", "e": "email",
}

// meaningKeywords is checked in order; the first keyword found in the comment or
// decoded name wins.
var meaningKeywords = []struct {
	meaning  string
	keywords []string
}{
	{"password", []string{"password", "secret", "passphrase"}},
	{"creditcard", []string{"creditcard", "credit card", "cardnumber", "card number"}},
	{"bankaccount", []string{"bankaccount", "bank account", "iban"}},
	{"nationalid", []string{"nationalid", "national id", "social security", "passport"}},
	{"email", []string{"email", "e-mail"}},
	{"phone", []string{"phone", "mobile", "telephone", "gsm"}},
	{"address", []string{"address", "street"}},
	{"zipcode", []string{"zipcode", "zip code", "postal"}},
	{"birthdate", []string{"birthdate", "birthday", "date of birth"}},
	{"ip", []string{"ip address", "ipaddress"}},
	{"latitude", []string{"latitude"}},
	{"longitude", []string{"longitude"}},
	{"name", []string{"firstname", "lastname", "fullname", "surname", "name"}},
}

// AnalyzeMeaning infers what a column holds from its name and comment
// (e.g. "email", "phone"). The decoded name is returned when nothing matches.
func AnalyzeMeaning(colName, comment string) string {
	c := strings.ToLower(comment)
	for _, m := range meaningKeywords {
		for _, kw := range m.keywords {
			if strings.Contains(c, kw) {
				return m.meaning
			}
		}
	}

	var decodedParts []string
	for _, part := range splitWords(colName) {
		if full, ok := abbreviations[part]; ok {
			decodedParts = append(decodedParts, full)
		} else {
			decodedParts = append(decodedParts, part)
		}
	}
	decoded := strings.Join(decodedParts, " ")
	joined := strings.Join(decodedParts, "")

	for _, m := range meaningKeywords {
		for _, kw := range m.keywords {
			if strings.Contains(joined, strings.ReplaceAll(kw, " ", "")) {
				return m.meaning
			}
		}
	}
	return decoded
}

// splitWords breaks snake_case and CamelCase names into lower-case words.
func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) ||
			(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}
