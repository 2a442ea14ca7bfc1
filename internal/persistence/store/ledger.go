package store

import (
	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/metrics"
)

// AppendLog prepends a fresh entry to the operation-log ledger (newest first),
// truncates to the cap and persists. The ledger is a domain array like any
// other, so the append itself is eligible for mirror sync; there is
// intentionally no logging-of-logging.
func (s *RecordStore) AppendLog(actor domain.Actor, action domain.Action, module, targetType, targetID, targetName, summary string, before, after any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLog(actor, action, module, targetType, targetID, targetName, summary, before, after)
}

func (s *RecordStore) appendLog(actor domain.Actor, action domain.Action, module, targetType, targetID, targetName, summary string, before, after any) {
	var logs []domain.OperationLog
	s.getTyped(domain.KeyOperationLogs, &logs)

	entry := domain.NewOperationLog(actor, action, module, targetType, targetID, targetName, summary, before, after)
	logs = append([]domain.OperationLog{entry}, logs...)
	if len(logs) > domain.MaxLedgerEntries {
		logs = logs[:domain.MaxLedgerEntries]
	}

	if s.persist(domain.KeyOperationLogs, logs, len(logs), true) {
		metrics.LedgerAppends.Inc()
	}
}

// QueryLogs returns ledger entries matching every provided filter field.
func (s *RecordStore) QueryLogs(filter domain.LogFilter) []domain.OperationLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var logs []domain.OperationLog
	s.getTyped(domain.KeyOperationLogs, &logs)

	matched := make([]domain.OperationLog, 0, len(logs))
	for _, entry := range logs {
		if filter.Matches(entry) {
			matched = append(matched, entry)
		}
	}
	return matched
}
