package credential

// Countries enumerates the issuing-country codes the schema accepts:
// the EU-27 plus IS, LI, NO, CH and UK.
var Countries = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
	"DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL",
	"PL", "PT", "RO", "SK", "SI", "ES", "SE",
	"IS", "LI", "NO", "CH", "UK",
}

var countrySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Countries))
	for _, c := range Countries {
		m[c] = struct{}{}
	}
	return m
}()

// ValidCountry returns true if code is a recognized issuing-country code.
func ValidCountry(code string) bool {
	_, ok := countrySet[code]
	return ok
}
