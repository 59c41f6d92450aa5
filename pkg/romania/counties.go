// Package romania holds the administrative catalogues required by CIUS-RO
// invoices: the ISO 3166-2:RO county codes and the Bucharest sector codes,
// plus best-effort sanitizers that map free-text county and sector
// designations onto them.
package romania

// CountyBucharest is the ISO 3166-2 code of the capital. When a party
// address resolves to it, the invoice renders the Bucharest sector in place
// of the city name.
const CountyBucharest = "RO-B"

// ──────────────────────────────────────────────────────────────────────────────
// ISO 3166-2:RO — the 41 counties plus the Bucharest municipality.
// Keys are normalized (lower case, diacritics folded, separators collapsed);
// besides the canonical names the table carries recognized alternate
// spellings and typos seen in upstream address data.
// ──────────────────────────────────────────────────────────────────────────────

var countyByName = map[string]string{
	"alba":            "RO-AB",
	"arad":            "RO-AR",
	"arges":           "RO-AG",
	"bacau":           "RO-BC",
	"bihor":           "RO-BH",
	"bistrita nasaud": "RO-BN",
	"bistrita":        "RO-BN",
	"botosani":        "RO-BT",
	"brasov":          "RO-BV",
	"braila":          "RO-BR",
	"buzau":           "RO-BZ",
	"caras severin":   "RO-CS",
	"calarasi":        "RO-CL",
	"cluj":            "RO-CJ",
	"cluj napoca":     "RO-CJ",
	"constanta":       "RO-CT",
	"covasna":         "RO-CV",
	"dambovita":       "RO-DB",
	"dimbovita":       "RO-DB",
	"dolj":            "RO-DJ",
	"galati":          "RO-GL",
	"giurgiu":         "RO-GR",
	"gorj":            "RO-GJ",
	"harghita":        "RO-HR",
	"hunedoara":       "RO-HD",
	"ialomita":        "RO-IL",
	"iasi":            "RO-IS",
	"ilfov":           "RO-IF",
	"maramures":       "RO-MM",
	"mehedinti":       "RO-MH",
	"mures":           "RO-MS",
	"neamt":           "RO-NT",
	"olt":             "RO-OT",
	"prahova":         "RO-PH",
	"satu mare":       "RO-SM",
	"salaj":           "RO-SJ",
	"sibiu":           "RO-SB",
	"suceava":         "RO-SV",
	"teleorman":       "RO-TR",
	"timis":           "RO-TM",
	"timisoara":       "RO-TM",
	"tulcea":          "RO-TL",
	"valcea":          "RO-VL",
	"vilcea":          "RO-VL",
	"vaslui":          "RO-VS",
	"vrancea":         "RO-VN",

	// Capital aliases.
	"bucuresti": CountyBucharest,
	"bucharest": CountyBucharest,
	"buc":       CountyBucharest,
}

// countyCodes accepts an already-valid code (with or without the RO- prefix)
// so callers may pass "RO-CJ" or "cj" straight through the sanitizer.
var countyCodes = map[string]string{}

func init() {
	for _, code := range countyByName {
		countyCodes[normalize(code)] = code
		countyCodes[normalize(code[3:])] = code
	}
}

// administrativeQualifiers are leading/trailing words stripped on the second
// lookup attempt: "Jud. Cluj", "Municipiul Iasi", "orasul Sibiu" and the like.
var administrativeQualifiers = map[string]bool{
	"judetul":    true,
	"judet":      true,
	"jud":        true,
	"jd":         true,
	"municipiul": true,
	"municipiu":  true,
	"mun":        true,
	"orasul":     true,
	"oras":       true,
	"or":         true,
	"comuna":     true,
	"com":        true,
	"satul":      true,
	"sat":        true,
	"regiunea":   true,
	"zona":       true,
}
