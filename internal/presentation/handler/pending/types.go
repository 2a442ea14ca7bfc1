package pending

import "github.com/jinxingedu/kindersync/internal/domain"

type stageRequest struct {
	Module     string        `json:"module"`
	RecordType string        `json:"recordType"`
	Data       domain.Record `json:"data"`
	CreatedBy  string        `json:"createdBy"`
}

type stageResponse struct {
	ID string `json:"id"`
}

type confirmRequest struct {
	TargetKey string       `json:"targetKey"`
	Operator  domain.Actor `json:"operator"`
}

type resolveResponse struct {
	Resolved bool `json:"resolved"`
}

type listPendingResponse struct {
	Count   int                    `json:"count"`
	Pending []domain.PendingUpload `json:"pending"`
}
