package safety

// Badge is the human-readable status projection shown on incident lists.
type Badge struct {
	Label      string `json:"label"`
	StyleClass string `json:"style_class"`
}

// ProjectStatus maps incident fields to a status badge using first-match
// precedence: closed outranks everything, then recordability, then the
// classification tag, then the queue status. A closed-but-recordable
// incident shows "Closed", not "OSHA Recordable".
func ProjectStatus(status string, isOSHARecordable *bool, classification *string) Badge {
	switch {
	case status == StatusClosed:
		return Badge{Label: "Closed", StyleClass: "badge-gray"}
	case isOSHARecordable != nil && *isOSHARecordable:
		return Badge{Label: "OSHA Recordable", StyleClass: "badge-red"}
	case (isOSHARecordable != nil && !*isOSHARecordable) ||
		(classification != nil && *classification == ClassificationFirstAidOnly):
		return Badge{Label: "First Aid Only", StyleClass: "badge-yellow"}
	case classification != nil && *classification == ClassificationNearMiss:
		return Badge{Label: "Near Miss", StyleClass: "badge-blue"}
	case status == StatusUnderReview:
		return Badge{Label: "Under Review", StyleClass: "badge-orange"}
	default:
		return Badge{Label: "Pending Review", StyleClass: "badge-gray"}
	}
}

// StatusBadge projects the incident's own fields.
func (i *Incident) StatusBadge() Badge {
	return ProjectStatus(i.Status, i.IsOSHARecordable, i.IncidentClassification)
}
