package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Storage         Category = "Storage"
	Ledger          Category = "Ledger"
	Mirror          Category = "Mirror"
	Sync            Category = "Sync"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	ExternalService SubCategory = "ExternalService"

	// Storage
	Read       SubCategory = "Read"
	Write      SubCategory = "Write"
	Quarantine SubCategory = "Quarantine"

	// Mirror / Sync
	Upload    SubCategory = "Upload"
	Download  SubCategory = "Download"
	Debounce  SubCategory = "Debounce"
	Reconcile SubCategory = "Reconcile"
	Health    SubCategory = "Health"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	Key          ExtraKey = "Key"
	Count        ExtraKey = "Count"
	TargetID     ExtraKey = "TargetId"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	StatusCode   ExtraKey = "StatusCode"
	Method       ExtraKey = "Method"
	ClientIp     ExtraKey = "ClientIp"
	ErrorMessage ExtraKey = "ErrorMessage"
)
