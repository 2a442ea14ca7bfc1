package domain

// StorageKey names one data domain. Every key maps to a single JSON array in the
// local store and to <namespace>/<key>.json in the cloud mirror.
type StorageKey string

const (
	// User management
	KeyAllUsers         StorageKey = "kt_all_users"
	KeyAuthorizedPhones StorageKey = "kt_authorized_phones"

	// Student records
	KeyStudents          StorageKey = "kt_students"
	KeyHealthRecords     StorageKey = "kt_health_records"
	KeyAttendanceRecords StorageKey = "kt_attendance_records"
	KeyPickupRecords     StorageKey = "kt_pickup_records"
	KeyGrowthRecords     StorageKey = "kt_growth_records"

	// Meal planning
	KeyMealPlans          StorageKey = "kt_meal_plans"
	KeyProcurementRecords StorageKey = "kt_procurement_records"

	// Staff
	KeyStaff     StorageKey = "kt_staff"
	KeySchedules StorageKey = "kt_schedules"

	// Family communication
	KeyAnnouncements      StorageKey = "kt_announcements"
	KeyClassNotifications StorageKey = "kt_class_notifications"
	KeyMessages           StorageKey = "kt_messages"

	// Curriculum
	KeyCurriculum StorageKey = "kt_curriculum"

	// Safety
	KeyVisitors     StorageKey = "kt_visitors"
	KeyFireChecks   StorageKey = "kt_fire_checks"
	KeyPatrols      StorageKey = "kt_patrols"
	KeyPatrolPoints StorageKey = "kt_patrol_points"

	// Document management
	KeyDocuments StorageKey = "kt_documents"
	KeyFolders   StorageKey = "kt_folders"

	// Disease control
	KeyInfectiousDisease StorageKey = "kt_infectious_disease"
	KeyDisinfection      StorageKey = "kt_disinfection"

	// Administrative duty
	KeyAdminDuty     StorageKey = "kt_admin_duty"
	KeyMealAccompany StorageKey = "kt_meal_accompany"

	// Audit trail
	KeyOperationLogs StorageKey = "kt_operation_logs"

	// Confirmation queue
	KeyPendingUploads StorageKey = "kt_pending_uploads"
)

// KeyLastSyncTime is bookkeeping only. It is deliberately absent from the
// registry so it never mirrors to the cloud.
const KeyLastSyncTime StorageKey = "kt_last_sync_time"

var registeredKeys = []StorageKey{
	KeyAllUsers,
	KeyAuthorizedPhones,
	KeyStudents,
	KeyHealthRecords,
	KeyAttendanceRecords,
	KeyPickupRecords,
	KeyGrowthRecords,
	KeyMealPlans,
	KeyProcurementRecords,
	KeyStaff,
	KeySchedules,
	KeyAnnouncements,
	KeyClassNotifications,
	KeyMessages,
	KeyCurriculum,
	KeyVisitors,
	KeyFireChecks,
	KeyPatrols,
	KeyPatrolPoints,
	KeyDocuments,
	KeyFolders,
	KeyInfectiousDisease,
	KeyDisinfection,
	KeyAdminDuty,
	KeyMealAccompany,
	KeyOperationLogs,
	KeyPendingUploads,
}

// RegisteredKeys returns the full key registry in a stable order.
func RegisteredKeys() []StorageKey {
	keys := make([]StorageKey, len(registeredKeys))
	copy(keys, registeredKeys)
	return keys
}

// IsRegistered reports whether key belongs to the registry. Keys outside the
// registry are local-only and never eligible for cloud sync.
func IsRegistered(key StorageKey) bool {
	for _, k := range registeredKeys {
		if k == key {
			return true
		}
	}
	return false
}
