package matching

// Confidence thresholds for acting on a best match without user input.
const (
	autoValidateThreshold  = 0.9
	autoAssociateThreshold = 0.7
)

// ShouldAutoValidate reports whether a match score is high enough to mark
// the receipt item validated without user review.
func ShouldAutoValidate(score float64) bool {
	return score > autoValidateThreshold
}

// ShouldAutoAssociate reports whether a match score is high enough to link
// the receipt item to the matched catalog product.
func ShouldAutoAssociate(score float64) bool {
	return score > autoAssociateThreshold
}
