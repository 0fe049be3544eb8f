package dto

// TransitionPreviewResponse reports whether a status change would be accepted,
// without committing anything.
type TransitionPreviewResponse struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	Allowed      bool     `json:"allowed"`
	Terminal     bool     `json:"terminal"`
	NextStatuses []string `json:"nextStatuses"`
}
