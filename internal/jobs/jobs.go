// Package jobs defines the portal's job types. The Kind of each type is the
// routing key the queue uses to pick the callback endpoint.
package jobs

// Job kind names, also the path segments of the callback endpoints.
const (
	KindEmail             = "email"
	KindAnalytics         = "analytics"
	KindSubscriptionCheck = "subscription-check"
)

// EmailArgs is the payload of a deferred email send.
type EmailArgs struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// Kind returns the job type name.
func (EmailArgs) Kind() string { return KindEmail }

// AnalyticsArgs is the payload of a usage-analytics recording job.
type AnalyticsArgs struct {
	UserID string `json:"userId"`
}

// Kind returns the job type name.
func (AnalyticsArgs) Kind() string { return KindAnalytics }

// SubscriptionCheckArgs is the payload of a deferred subscription re-check.
type SubscriptionCheckArgs struct {
	UserID string `json:"userId"`
}

// Kind returns the job type name.
func (SubscriptionCheckArgs) Kind() string { return KindSubscriptionCheck }
