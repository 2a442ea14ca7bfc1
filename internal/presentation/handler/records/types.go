package records

import "github.com/jinxingedu/kindersync/internal/domain"

type listRecordsResponse struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
}

type saveRecordRequest struct {
	Record     domain.Record `json:"record"`
	Module     string        `json:"module"`
	RecordType string        `json:"recordType"`
	Operator   domain.Actor  `json:"operator"`
}

type deleteRecordRequest struct {
	Module     string       `json:"module"`
	RecordType string       `json:"recordType"`
	Operator   domain.Actor `json:"operator"`
}

type batchSaveRequest struct {
	Records    []domain.Record `json:"records"`
	Module     string          `json:"module"`
	RecordType string          `json:"recordType"`
	Summary    string          `json:"summary"`
	Operator   domain.Actor    `json:"operator"`
}

type saveResponse struct {
	Saved bool `json:"saved"`
	Count int  `json:"count"`
}
