package permission

import "github.com/mpapenbr/racemetrics/pkg/grpc/auth"

type Permission string

const (
	PermissionRead            Permission = "read"
	PermissionCheckCompliance Permission = "check-compliance"
)

const (
	PermissionWriteCar  Permission = "write-car"
	PermissionDeleteCar Permission = "delete-car"
)

const (
	PermissionRecordMetric     Permission = "record-metric"
	PermissionDeleteMetric     Permission = "delete-metric"
	PermissionManageCategories Permission = "manage-categories"
)

const (
	PermissionWriteSession  Permission = "write-session"
	PermissionDeleteSession Permission = "delete-session"
	PermissionLogData       Permission = "log-data"
	PermissionClearData     Permission = "clear-data"
)

const (
	PermissionWriteSetup  Permission = "write-setup"
	PermissionDeleteSetup Permission = "delete-setup"
)

const (
	PermissionGenerateRecommendations Permission = "generate-recommendations"
	PermissionRespondRecommendation   Permission = "respond-recommendation"
	PermissionDeleteRecommendation    Permission = "delete-recommendation"
)

type PermissionEvaluator interface {
	HasPermission(auth auth.Authentication, perm Permission) bool
}

// NewPermissionEvaluator returns the policy based evaluator.
func NewPermissionEvaluator(opts ...OpaOption) (PermissionEvaluator, error) {
	return NewOpaPermissionEvaluator(opts...)
}
