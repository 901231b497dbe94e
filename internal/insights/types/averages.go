package types

// ActionAverages carries per-action-type population means.
type ActionAverages struct {
	CPR      *float64 `json:"cpr,omitempty"`
	PageConv *float64 `json:"page_conv,omitempty"`
}

// Averages holds population-level per-metric means. Values are pointers so a
// missing mean is distinguishable from a zero mean; the engine treats both
// nil and non-positive means as "no reference".
type Averages struct {
	Hook        *float64 `json:"hook,omitempty"`
	HoldRate    *float64 `json:"hold_rate,omitempty"`
	CTR         *float64 `json:"ctr,omitempty"`
	WebsiteCTR  *float64 `json:"website_ctr,omitempty"`
	ConnectRate *float64 `json:"connect_rate,omitempty"`
	PageConv    *float64 `json:"page_conv,omitempty"`
	CPM         *float64 `json:"cpm,omitempty"`
	CPR         *float64 `json:"cpr,omitempty"`

	PerActionType map[string]ActionAverages `json:"per_action_type,omitempty"`
}

// CPRFor resolves the CPR mean for the action type, preferring the
// per-action-type split over the global mean.
func (a Averages) CPRFor(actionType string) *float64 {
	if split, ok := a.PerActionType[actionType]; ok && split.CPR != nil {
		return split.CPR
	}
	return a.CPR
}

// PageConvFor resolves the page-conversion mean for the action type.
func (a Averages) PageConvFor(actionType string) *float64 {
	if split, ok := a.PerActionType[actionType]; ok && split.PageConv != nil {
		return split.PageConv
	}
	return a.PageConv
}

// Positive reports whether the mean is present and greater than zero.
func Positive(v *float64) bool {
	return v != nil && *v > 0
}
