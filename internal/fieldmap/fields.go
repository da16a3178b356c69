// Package fieldmap holds the static lookup tables used to read WordPress user
// meta into talent profiles: meta key to field mappings, enum value mappings,
// numeric and list bounds, and the value coercion helpers.
package fieldmap

// Target field names. These are the semantic names used in validation issues
// and transform warnings.
const (
	FieldFirstName            = "firstName"
	FieldLastName             = "lastName"
	FieldGender               = "gender"
	FieldAgeMin               = "ageMin"
	FieldAgeMax               = "ageMax"
	FieldBirthDate            = "birthDate"
	FieldBirthPlace           = "birthPlace"
	FieldHeight               = "height"
	FieldPhysique             = "physique"
	FieldEthnicAppearance     = "ethnicAppearance"
	FieldHairColor            = "hairColor"
	FieldHairLength           = "hairLength"
	FieldBeardType            = "beardType"
	FieldEyeColor             = "eyeColor"
	FieldHasTattoos           = "hasTattoos"
	FieldTattooDescription    = "tattooDescription"
	FieldHasScars             = "hasScars"
	FieldScarDescription      = "scarDescription"
	FieldLanguages            = "languages"
	FieldAccents              = "accents"
	FieldAthleticSkills       = "athleticSkills"
	FieldInstruments          = "instruments"
	FieldPerformanceSkills    = "performanceSkills"
	FieldDanceStyles          = "danceStyles"
	FieldPhotos               = "photos"
	FieldVideoURLs            = "videoUrls"
	FieldShowreelURL          = "showreelUrl"
	FieldPresentationVideoURL = "presentationVideoUrl"
	FieldIsAvailable          = "isAvailable"
	FieldAvailabilityTypes    = "availabilityTypes"
	FieldDailyRate            = "dailyRate"
	FieldRateNegotiable       = "rateNegotiable"
	FieldPhone                = "phone"
	FieldIMDBURL              = "imdbUrl"
	FieldPortfolio            = "portfolio"
	FieldSocialMedia          = "socialMedia"
	FieldBio                  = "bio"
	FieldLocation             = "location"
)

// MetaKey maps one legacy meta key to a target field.
type MetaKey struct {
	Key   string
	Field string
}

// MetaKeys is the ordered meta key table. When a user carries several keys
// for the same field, the first entry in this table wins.
var MetaKeys = []MetaKey{
	{"first_name", FieldFirstName},
	{"prenom", FieldFirstName},
	{"last_name", FieldLastName},
	{"nom", FieldLastName},
	{"gender", FieldGender},
	{"sexe", FieldGender},
	{"genre", FieldGender},
	{"age_min", FieldAgeMin},
	{"age_range_min", FieldAgeMin},
	{"age_minimum", FieldAgeMin},
	{"age_max", FieldAgeMax},
	{"age_range_max", FieldAgeMax},
	{"age_maximum", FieldAgeMax},
	{"date_of_birth", FieldBirthDate},
	{"birth_date", FieldBirthDate},
	{"date_naissance", FieldBirthDate},
	{"birth_place", FieldBirthPlace},
	{"lieu_naissance", FieldBirthPlace},
	{"height", FieldHeight},
	{"taille", FieldHeight},
	{"physique", FieldPhysique},
	{"body_type", FieldPhysique},
	{"silhouette", FieldPhysique},
	{"ethnic_appearance", FieldEthnicAppearance},
	{"type_ethnique", FieldEthnicAppearance},
	{"hair_color", FieldHairColor},
	{"couleur_cheveux", FieldHairColor},
	{"hair_length", FieldHairLength},
	{"longueur_cheveux", FieldHairLength},
	{"beard_type", FieldBeardType},
	{"beard", FieldBeardType},
	{"barbe", FieldBeardType},
	{"eye_color", FieldEyeColor},
	{"couleur_yeux", FieldEyeColor},
	{"has_tattoos", FieldHasTattoos},
	{"tattoos", FieldHasTattoos},
	{"tatouages", FieldHasTattoos},
	{"tattoo_description", FieldTattooDescription},
	{"description_tatouages", FieldTattooDescription},
	{"has_scars", FieldHasScars},
	{"scars", FieldHasScars},
	{"cicatrices", FieldHasScars},
	{"scar_description", FieldScarDescription},
	{"description_cicatrices", FieldScarDescription},
	{"languages", FieldLanguages},
	{"langues", FieldLanguages},
	{"accents", FieldAccents},
	{"athletic_skills", FieldAthleticSkills},
	{"sports", FieldAthleticSkills},
	{"instruments", FieldInstruments},
	{"performance_skills", FieldPerformanceSkills},
	{"competences", FieldPerformanceSkills},
	{"dance_styles", FieldDanceStyles},
	{"danses", FieldDanceStyles},
	{"photos", FieldPhotos},
	{"gallery", FieldPhotos},
	{"galerie", FieldPhotos},
	{"video_urls", FieldVideoURLs},
	{"videos", FieldVideoURLs},
	{"showreel", FieldShowreelURL},
	{"showreel_url", FieldShowreelURL},
	{"bande_demo", FieldShowreelURL},
	{"presentation_video", FieldPresentationVideoURL},
	{"video_presentation", FieldPresentationVideoURL},
	{"available", FieldIsAvailable},
	{"is_available", FieldIsAvailable},
	{"disponible", FieldIsAvailable},
	{"availability_types", FieldAvailabilityTypes},
	{"availability_type", FieldAvailabilityTypes},
	{"type_disponibilite", FieldAvailabilityTypes},
	{"daily_rate", FieldDailyRate},
	{"tarif_journalier", FieldDailyRate},
	{"rate_negotiable", FieldRateNegotiable},
	{"negociable", FieldRateNegotiable},
	{"phone", FieldPhone},
	{"telephone", FieldPhone},
	{"billing_phone", FieldPhone},
	{"imdb_url", FieldIMDBURL},
	{"imdb", FieldIMDBURL},
	{"portfolio", FieldPortfolio},
	{"portfolio_urls", FieldPortfolio},
	{"social_media", FieldSocialMedia},
	{"reseaux_sociaux", FieldSocialMedia},
	{"description", FieldBio},
	{"bio", FieldBio},
	{"biographie", FieldBio},
	{"location", FieldLocation},
	{"ville", FieldLocation},
	{"city", FieldLocation},
}

// LookupMeta returns the value for field from a user's meta map, using the
// first key in MetaKeys that maps to field and is present in attrs.
func LookupMeta(attrs map[string]string, field string) (string, bool) {
	for _, mk := range MetaKeys {
		if mk.Field != field {
			continue
		}
		if v, ok := attrs[mk.Key]; ok {
			return v, true
		}
	}
	return "", false
}

// FieldForKey returns the target field for a legacy meta key.
func FieldForKey(key string) (string, bool) {
	for _, mk := range MetaKeys {
		if mk.Key == key {
			return mk.Field, true
		}
	}
	return "", false
}

// Range is an inclusive numeric bound.
type Range struct {
	Min int
	Max int
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

var (
	AgeBounds    = Range{Min: 1, Max: 99}
	HeightBounds = Range{Min: 50, Max: 250} // centimetres
)

// ArrayLimits caps the number of elements kept for list fields.
var ArrayLimits = map[string]int{
	FieldLanguages:         10,
	FieldAccents:           10,
	FieldAthleticSkills:    20,
	FieldInstruments:       10,
	FieldPerformanceSkills: 20,
	FieldDanceStyles:       20,
	FieldPhotos:            20,
	FieldVideoURLs:         10,
	FieldPortfolio:         10,
}

// ArrayFields lists the limited list fields in the order they are checked.
var ArrayFields = []string{
	FieldLanguages,
	FieldAccents,
	FieldAthleticSkills,
	FieldInstruments,
	FieldPerformanceSkills,
	FieldDanceStyles,
	FieldPhotos,
	FieldVideoURLs,
	FieldPortfolio,
}

// MaxLen returns the configured maximum length for a list field.
func MaxLen(field string) (int, bool) {
	n, ok := ArrayLimits[field]
	return n, ok
}
