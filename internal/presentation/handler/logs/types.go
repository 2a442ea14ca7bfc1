package logs

import "github.com/jinxingedu/kindersync/internal/domain"

type listLogsResponse struct {
	Count int                   `json:"count"`
	Logs  []domain.OperationLog `json:"logs"`
}
