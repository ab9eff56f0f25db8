package safety

// Incident lifecycle statuses.
const (
	StatusPendingReview = "pending_review"
	StatusUnderReview   = "under_review"
	StatusClassified    = "classified"
	StatusClosed        = "closed"
)

var validStatuses = map[string]bool{
	StatusPendingReview: true,
	StatusUnderReview:   true,
	StatusClassified:    true,
	StatusClosed:        true,
}

// Incident source containers.
const (
	SourceProject           = "project"
	SourceGroundsInspection = "grounds_inspection"
	SourceWorkOrder         = "work_order"
	SourceStandalone        = "standalone"
)

var validSourceTypes = map[string]bool{
	SourceProject:           true,
	SourceGroundsInspection: true,
	SourceWorkOrder:         true,
	SourceStandalone:        true,
}

// Classification values assigned by the reviewer.
const (
	ClassificationNearMiss     = "near_miss"
	ClassificationFirstAidOnly = "first_aid_only"
	ClassificationInjury       = "injury"
)

var validClassifications = map[string]bool{
	ClassificationNearMiss:     true,
	ClassificationFirstAidOnly: true,
	ClassificationInjury:       true,
}

// InjuryCategories is the fixed set of injury category tags offered during
// intake and reused by the classification injury-type selector. Intake values
// are always valid classification inputs because both read this list.
var InjuryCategories = []string{
	"cut_laceration",
	"bruise_contusion",
	"burn",
	"fracture",
	"sprain_strain",
	"puncture",
	"crush",
	"amputation",
	"eye_injury",
	"respiratory",
	"heat_illness",
	"electric_shock",
	"other",
}

// BodyParts is the fixed list offered for the body-part-affected selector.
var BodyParts = []string{
	"head",
	"eye",
	"face",
	"neck",
	"shoulder",
	"arm",
	"elbow",
	"wrist",
	"hand",
	"finger",
	"back",
	"torso",
	"hip",
	"leg",
	"knee",
	"ankle",
	"foot",
	"toe",
	"multiple",
	"internal",
}

// MedicalTreatments is the fixed set of medical treatment levels collected at
// intake (step 3).
var MedicalTreatments = []string{
	"none",
	"first_aid_onsite",
	"clinic_visit",
	"emergency_room",
	"hospitalized_overnight",
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ValidInjuryCategory reports whether v is one of the intake injury tags.
func ValidInjuryCategory(v string) bool { return contains(InjuryCategories, v) }

// ValidBodyPart reports whether v is one of the body-part options.
func ValidBodyPart(v string) bool { return contains(BodyParts, v) }

// ValidMedicalTreatment reports whether v is one of the treatment levels.
func ValidMedicalTreatment(v string) bool { return contains(MedicalTreatments, v) }
