package safety

import "testing"

func TestProjectStatus_Precedence(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		recordable     *bool
		classification *string
		wantLabel      string
	}{
		{"closed wins over everything", StatusClosed, boolPtr(true), strPtr(ClassificationInjury), "Closed"},
		{"recordable true", StatusClassified, boolPtr(true), strPtr(ClassificationInjury), "OSHA Recordable"},
		{"recordable false", StatusClassified, boolPtr(false), nil, "First Aid Only"},
		{"first aid by classification", StatusClassified, nil, strPtr(ClassificationFirstAidOnly), "First Aid Only"},
		{"recordable outranks near-miss tag", StatusClassified, boolPtr(true), strPtr(ClassificationNearMiss), "OSHA Recordable"},
		{"near miss", StatusClassified, nil, strPtr(ClassificationNearMiss), "Near Miss"},
		{"under review", StatusUnderReview, nil, nil, "Under Review"},
		{"pending default", StatusPendingReview, nil, nil, "Pending Review"},
		{"closed pending fields", StatusClosed, nil, nil, "Closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge := ProjectStatus(tt.status, tt.recordable, tt.classification)
			if badge.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", badge.Label, tt.wantLabel)
			}
			if badge.StyleClass == "" {
				t.Error("style class must never be empty")
			}
		})
	}
}

func TestStatusBadge_ClosedAlwaysClosed(t *testing.T) {
	// Every field combination with a closed status must project "Closed".
	recs := []*bool{nil, boolPtr(true), boolPtr(false)}
	classes := []*string{nil, strPtr(ClassificationInjury), strPtr(ClassificationNearMiss), strPtr(ClassificationFirstAidOnly)}

	for _, rec := range recs {
		for _, cls := range classes {
			inc := &Incident{Status: StatusClosed, IsOSHARecordable: rec, IncidentClassification: cls}
			if badge := inc.StatusBadge(); badge.Label != "Closed" {
				t.Errorf("closed incident projected %q", badge.Label)
			}
		}
	}
}
