package i18n

import (
	"golang.org/x/text/language"

	"github.com/dotcommander/tqa/internal/taxonomy"
)

var english = &Catalog{
	Tag:        language.English,
	categories: map[taxonomy.Category]string{},
	severities: map[taxonomy.Severity]string{},
	ratings: map[int]RatingText{
		5: {"Functional", "No action needed. Ready for publication."},
		4: {"Minor deficiencies", "A light proofread is enough."},
		3: {"Isolated significant deficiencies", "Needs editing but is salvageable."},
		2: {"Serious deficiencies", "Heavy editing or partial retranslation."},
		1: {"Very serious deficiencies", "Rejected. Retranslation required."},
	},

	Pass: "Pass",
	Fail: "Fail",

	Scorecard:          "Error scorecard",
	ErrorScore:         "Error score",
	ErrorScorePer1000:  "Error score / 1000 words",
	ErrorScoreLimit:    "Error score threshold",
	QualityRating:      "Quality rating",
	Overall:            "Overall result",
	WordCount:          "Word count",
	TotalSegments:      "Total segments",
	TotalErrors:        "Total errors",
	TotalPenaltyPoints: "Total penalty points",
	CriticalCount:      "Critical errors",
	CriticalLimit:      "Critical error limit",
	Description:        "Description",
	ErrorType:          "Error type",
	Severity:           "Severity",
	Count:              "Count",
	Penalty:            "Penalty",
	ErrorsByType:       "ERRORS BY TYPE",
	ErrorsBySeverity:   "ERRORS BY SEVERITY",
	PerSegmentDetails:  "Per-segment details",
	Segment:            "Segment",
	Words:              "Words",
	Errors:             "Errors",
	OverallComment:     "Overall comment",
	NoErrorsFound:      "No errors found!",
	Totals:             "OVERALL RESULTS",
	Unclassified:       "Unclassified",
	Fingerprint:        "Fingerprint",

	SourceText:   "Source text",
	TargetText:   "Target text",
	SourceLang:   "Source language",
	TargetLang:   "Target language",
	Span:         "Error span",
	Explanation:  "Explanation",
	SegmentWords: "Segment word count",
	SegmentTotal: "Segment penalty total",
}

var finnish = &Catalog{
	Tag: language.Finnish,
	categories: map[taxonomy.Category]string{
		taxonomy.Punctuation:            "Välimerkit",
		taxonomy.Grammar:                "Kielioppi",
		taxonomy.Spelling:               "Oikeinkirjoitus",
		taxonomy.Terminology:            "Terminologia",
		taxonomy.Style:                  "Tyyli",
		taxonomy.Unidiomatic:            "Epäidiomaattinen",
		taxonomy.Untranslated:           "Kääntämätön",
		taxonomy.MajorMistranslation:    "Merkittävä käännösvirhe",
		taxonomy.CriticalMistranslation: "Kriittinen käännösvirhe",
		taxonomy.Omission:               "Puuttuva sisältö",
		taxonomy.NumericalError:         "Numerovirhe",
	},
	severities: map[taxonomy.Severity]string{
		taxonomy.Minor:    "Vähäinen",
		taxonomy.Major:    "Merkittävä",
		taxonomy.Critical: "Kriittinen",
	},
	ratings: map[int]RatingText{
		5: {"Toimiva", "Ei toimenpiteitä. Valmis julkaistavaksi."},
		4: {"Pieniä puutteita", "Kevyt oikoluku riittää."},
		3: {"Yksittäisiä merkittäviä puutteita", "Vaatii editointia, mutta pelastettavissa."},
		2: {"Vakavia puutteita", "Raskas editointi tai osittainen uudelleenkääntäminen."},
		1: {"Erittäin vakavia puutteita", "Hylätty. Uudelleenkääntäminen vaaditaan."},
	},

	Pass: "Hyväksytty",
	Fail: "Hylätty",

	Scorecard:          "Virhepisteytyslomake",
	ErrorScore:         "Virhepisteet",
	ErrorScorePer1000:  "Virhepisteet / 1000 sanaa",
	ErrorScoreLimit:    "Virhepisteiden raja-arvo",
	QualityRating:      "Laatuarvosana",
	Overall:            "Kokonaistulos",
	WordCount:          "Sanamäärä",
	TotalSegments:      "Segmenttejä yhteensä",
	TotalErrors:        "Virheet yhteensä",
	TotalPenaltyPoints: "Rangaistuspisteet yhteensä",
	CriticalCount:      "Kriittiset virheet",
	CriticalLimit:      "Kriittisten virheiden raja-arvo",
	Description:        "Kuvaus",
	ErrorType:          "Virhetyyppi",
	Severity:           "Vakavuusaste",
	Count:              "Lukumäärä",
	Penalty:            "Pisteet",
	ErrorsByType:       "VIRHEET TYYPEITTÄIN",
	ErrorsBySeverity:   "VIRHEET VAKAVUUSASTEITTAIN",
	PerSegmentDetails:  "Segmenttikohtaiset tiedot",
	Segment:            "Segmentti",
	Words:              "Sanat",
	Errors:             "Virheet",
	OverallComment:     "Yleiskommentti",
	NoErrorsFound:      "Virheitä ei löytynyt!",
	Totals:             "KOKONAISTULOKSET",
	Unclassified:       "Luokittelematon",
	Fingerprint:        "Sormenjälki",

	SourceText:   "Lähdeteksti",
	TargetText:   "Kohdeteksti",
	SourceLang:   "Lähdekieli",
	TargetLang:   "Kohdekieli",
	Span:         "Virhejakso",
	Explanation:  "Selitys",
	SegmentWords: "Segmentin sanamäärä",
	SegmentTotal: "Segmentin virhepistesumma",
}
