package fieldmap

import "strings"

// Canonical enum values stored in the target schema.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

var genderValues = map[string]string{
	"m":           GenderMale,
	"male":        GenderMale,
	"man":         GenderMale,
	"h":           GenderMale,
	"homme":       GenderMale,
	"masculin":    GenderMale,
	"f":           GenderFemale,
	"female":      GenderFemale,
	"woman":       GenderFemale,
	"femme":       GenderFemale,
	"feminin":     GenderFemale,
	"féminin":     GenderFemale,
	"other":       GenderOther,
	"autre":       GenderOther,
	"non-binary":  GenderOther,
	"non-binaire": GenderOther,
	"nb":          GenderOther,
}

var physiqueValues = map[string]string{
	"slim":       "SLIM",
	"thin":       "SLIM",
	"mince":      "SLIM",
	"athletic":   "ATHLETIC",
	"sportif":    "ATHLETIC",
	"athletique": "ATHLETIC",
	"athlétique": "ATHLETIC",
	"average":    "AVERAGE",
	"normal":     "AVERAGE",
	"moyen":      "AVERAGE",
	"muscular":   "MUSCULAR",
	"muscle":     "MUSCULAR",
	"musclé":     "MUSCULAR",
	"curvy":      "CURVY",
	"rond":       "CURVY",
	"ronde":      "CURVY",
	"heavy":      "HEAVY",
	"fort":       "HEAVY",
	"corpulent":  "HEAVY",
}

var hairColorValues = map[string]string{
	"black":    "BLACK",
	"noir":     "BLACK",
	"brown":    "BROWN",
	"brun":     "BROWN",
	"brune":    "BROWN",
	"chestnut": "CHESTNUT",
	"chatain":  "CHESTNUT",
	"châtain":  "CHESTNUT",
	"blonde":   "BLONDE",
	"blond":    "BLONDE",
	"red":      "RED",
	"roux":     "RED",
	"rousse":   "RED",
	"grey":     "GREY",
	"gray":     "GREY",
	"gris":     "GREY",
	"white":    "WHITE",
	"blanc":    "WHITE",
	"bald":     "BALD",
	"chauve":   "BALD",
}

var eyeColorValues = map[string]string{
	"blue":     "BLUE",
	"bleu":     "BLUE",
	"bleus":    "BLUE",
	"green":    "GREEN",
	"vert":     "GREEN",
	"verts":    "GREEN",
	"brown":    "BROWN",
	"marron":   "BROWN",
	"hazel":    "HAZEL",
	"noisette": "HAZEL",
	"grey":     "GREY",
	"gray":     "GREY",
	"gris":     "GREY",
	"black":    "BLACK",
	"noir":     "BLACK",
	"noirs":    "BLACK",
}

var hairLengthValues = map[string]string{
	"bald":      "BALD",
	"chauve":    "BALD",
	"short":     "SHORT",
	"court":     "SHORT",
	"courts":    "SHORT",
	"medium":    "MEDIUM",
	"mi-long":   "MEDIUM",
	"mi-longs":  "MEDIUM",
	"long":      "LONG",
	"longs":     "LONG",
	"very long": "VERY_LONG",
	"tres long": "VERY_LONG",
	"très long": "VERY_LONG",
}

var beardTypeValues = map[string]string{
	"none":             "NONE",
	"aucune":           "NONE",
	"rase":             "NONE",
	"rasé":             "NONE",
	"stubble":          "STUBBLE",
	"barbe de 3 jours": "STUBBLE",
	"short":            "SHORT",
	"courte":           "SHORT",
	"full":             "FULL",
	"full beard":       "FULL",
	"longue":           "FULL",
	"goatee":           "GOATEE",
	"bouc":             "GOATEE",
	"mustache":         "MUSTACHE",
	"moustache":        "MUSTACHE",
}

var availabilityTypeValues = map[string]string{
	"full_time":     "FULL_TIME",
	"full-time":     "FULL_TIME",
	"full time":     "FULL_TIME",
	"temps plein":   "FULL_TIME",
	"part_time":     "PART_TIME",
	"part-time":     "PART_TIME",
	"part time":     "PART_TIME",
	"temps partiel": "PART_TIME",
	"weekends":      "WEEKENDS",
	"weekend":       "WEEKENDS",
	"week-end":      "WEEKENDS",
	"evenings":      "EVENINGS",
	"evening":       "EVENINGS",
	"soirs":         "EVENINGS",
	"soirees":       "EVENINGS",
	"soirées":       "EVENINGS",
	"flexible":      "FLEXIBLE",
}

func lookup(table map[string]string, v string) (string, bool) {
	mapped, ok := table[strings.ToLower(strings.TrimSpace(v))]
	return mapped, ok
}

// MapGender maps a legacy gender value to MALE, FEMALE or OTHER.
func MapGender(v string) (string, bool) { return lookup(genderValues, v) }

func MapPhysique(v string) (string, bool)  { return lookup(physiqueValues, v) }
func MapHairColor(v string) (string, bool) { return lookup(hairColorValues, v) }
func MapEyeColor(v string) (string, bool)  { return lookup(eyeColorValues, v) }
func MapHairLength(v string) (string, bool) {
	return lookup(hairLengthValues, v)
}
func MapBeardType(v string) (string, bool) { return lookup(beardTypeValues, v) }

// MapAvailabilityType maps a single availability element.
func MapAvailabilityType(v string) (string, bool) {
	return lookup(availabilityTypeValues, v)
}
