package services

// CredibilityIndicator is a catalog entry describing one classification
// indicator a newsroom can attach to a document. Documents store only the
// active keys; the catalog supplies labels and default descriptions.
type CredibilityIndicator struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DefaultCredibilityIndicators returns the built-in indicator catalog.
func DefaultCredibilityIndicators() []CredibilityIndicator {
	return []CredibilityIndicator{
		{
			Key:         "original_reporting",
			Label:       "Original Reporting",
			Description: "This article contains new, firsthand information uncovered by its reporter(s). This includes directly interviewing sources and research / analysis of primary source documents.",
		},
		{
			Key:         "on_the_ground",
			Label:       "On the Ground",
			Description: "Indicates that a Newsmaker/Newsmakers was/were physically present to report the article from some/all of the location(s) it concerns.",
		},
		{
			Key:         "sources_cited",
			Label:       "Sources Cited",
			Description: "As a news piece, this article cites verifiable, third-party sources which have all been thoroughly fact-checked and deemed credible by the Newsroom.",
		},
		{
			Key:         "subject_specialist",
			Label:       "Subject Specialist",
			Description: "This Newsmaker has been deemed by this Newsroom as having a specialized knowledge of the subject covered in this article.",
		},
	}
}

// IsKnownIndicator reports whether key exists in the built-in catalog.
func IsKnownIndicator(key string) bool {
	for _, indicator := range DefaultCredibilityIndicators() {
		if indicator.Key == key {
			return true
		}
	}
	return false
}
