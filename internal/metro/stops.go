// Package metro carries the static mapping from Pubtrans journey pattern
// point numbers to metro platform short names. The table covers both
// platforms of every station on the line; it changes only when the network
// does, so it ships with the binary rather than being queried.
package metro

// shortNames maps a journey pattern point number to the station's platform
// short name. Espoo platforms are in the 2xxxxxx range, Helsinki in 1xxxxxx.
var shortNames = map[string]string{
	// Matinkylä
	"2314601": "MAK", "2314602": "MAK",
	// Niittykumpu
	"2313601": "NIK", "2313602": "NIK",
	// Urheilupuisto
	"2312601": "URP", "2312602": "URP",
	// Tapiola
	"2311601": "TAP", "2311602": "TAP",
	// Aalto-yliopisto
	"2222601": "AAL", "2222602": "AAL",
	// Keilaniemi
	"2221601": "KEL", "2221602": "KEL",
	// Koivusaari
	"1310601": "KOS", "1310602": "KOS",
	// Lauttasaari
	"1311601": "LAS", "1311602": "LAS",
	// Ruoholahti
	"1201601": "RHL", "1201602": "RHL",
	// Kamppi
	"1040601": "KAM", "1040602": "KAM",
	// Rautatientori
	"1020601": "RT", "1020602": "RT",
	// Helsingin yliopisto
	"1030601": "HY", "1030602": "HY",
	// Hakaniemi
	"1111601": "HT", "1111602": "HT",
	// Sörnäinen
	"1121601": "SN", "1121602": "SN",
	// Kalasatama
	"1102601": "KS", "1102602": "KS",
	// Kulosaari
	"1420601": "KL", "1420602": "KL",
	// Herttoniemi
	"1431601": "HN", "1431602": "HN",
	// Siilitie
	"1453601": "ST", "1453602": "ST",
	// Itäkeskus
	"1454601": "IK", "1454602": "IK",
	// Myllypuro
	"1457601": "MP", "1457602": "MP",
	// Kontula
	"1471601": "KO", "1471602": "KO",
	// Mellunmäki
	"1472601": "MM", "1472602": "MM",
	// Puotila
	"1460601": "PT", "1460602": "PT",
	// Rastila
	"1541601": "RA", "1541602": "RA",
	// Vuosaari
	"1542601": "VS", "1542602": "VS",
}

// ShortName resolves a journey pattern point number to the platform short
// name. The second return is false when the number is not a metro platform.
func ShortName(stopNumber string) (string, bool) {
	name, ok := shortNames[stopNumber]
	return name, ok
}
