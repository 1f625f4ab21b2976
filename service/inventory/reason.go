package inventory

// ReasonCode tags why a stock adjustment was made.
type ReasonCode string

const (
	ReasonRecount    ReasonCode = "recount"
	ReasonDamage     ReasonCode = "damage"
	ReasonLoss       ReasonCode = "loss"
	ReasonReturn     ReasonCode = "return"
	ReasonCorrection ReasonCode = "correction"
	ReasonOther      ReasonCode = "other"
)

var knownReasons = map[ReasonCode]bool{
	ReasonRecount:    true,
	ReasonDamage:     true,
	ReasonLoss:       true,
	ReasonReturn:     true,
	ReasonCorrection: true,
	ReasonOther:      true,
}

// AdjustmentReason is a tagged reason: a fixed code plus free text that is
// required when the code is "other".
type AdjustmentReason struct {
	Code       ReasonCode `json:"code"`
	CustomText string     `json:"custom_text,omitempty"`
}

// Validate returns the violations for this reason, if any.
func (r AdjustmentReason) Validate() []string {
	var reasons []string
	if r.Code == "" {
		reasons = append(reasons, "adjustment reason is required")
		return reasons
	}
	if !knownReasons[r.Code] {
		reasons = append(reasons, "unknown adjustment reason "+string(r.Code))
	}
	if r.Code == ReasonOther && r.CustomText == "" {
		reasons = append(reasons, "custom reason text is required when reason is other")
	}
	return reasons
}

// Text is the audit-trail rendering of the reason.
func (r AdjustmentReason) Text() string {
	if r.Code == ReasonOther && r.CustomText != "" {
		return "other: " + r.CustomText
	}
	return string(r.Code)
}
