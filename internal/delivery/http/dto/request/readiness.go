package request

type ReadinessRequest struct {
	SpecialistID string `json:"specialist_id"`
}

type NotReadyRequest struct {
	SpecialistID string `json:"specialist_id"`
	Reason       string `json:"reason"`
}
