package client

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to the remote analysis service. All methods require a
// successful Connect call first.
type Client interface {
	// Connect authenticates and establishes a session.
	Connect(ctx context.Context) error
	// ServerVersion returns the version reported by the service.
	ServerVersion(ctx context.Context) (string, error)
	// ScanSummary refreshes the scan summary identified by href.
	ScanSummary(ctx context.Context, href string) (*ScanSummary, error)
	// PolicyStatus returns nil without an error when no policy status
	// is available for the project version.
	PolicyStatus(ctx context.Context, project, version string) (*PolicyStatus, error)
	// RiskReport collects the data required to render the risk report.
	RiskReport(ctx context.Context, project, version string) (*RiskReport, error)
	// DownloadCLI downloads and unpacks the scan CLI distribution into destination.
	DownloadCLI(ctx context.Context, destination string) error
}

type ScanStatus string

const (
	ScanStatusUnstarted         ScanStatus = "UNSTARTED"
	ScanStatusScanning          ScanStatus = "SCANNING"
	ScanStatusSavingScanData    ScanStatus = "SAVING_SCAN_DATA"
	ScanStatusScanDataSaveDone  ScanStatus = "SCAN_DATA_SAVE_COMPLETE"
	ScanStatusRequestedMatchJob ScanStatus = "REQUESTED_MATCH_JOB"
	ScanStatusMatching          ScanStatus = "MATCHING"
	ScanStatusBomVersionCheck   ScanStatus = "BOM_VERSION_CHECK"
	ScanStatusBuildingBom       ScanStatus = "BUILDING_BOM"
	ScanStatusComplete          ScanStatus = "COMPLETE"
	ScanStatusCancelled         ScanStatus = "CANCELLED"
	ScanStatusErrorScanning     ScanStatus = "ERROR_SCANNING"
	ScanStatusErrorSavingData   ScanStatus = "ERROR_SAVING_SCAN_DATA"
	ScanStatusErrorMatching     ScanStatus = "ERROR_MATCHING"
	ScanStatusErrorBuildingBom  ScanStatus = "ERROR_BUILDING_BOM"
	ScanStatusError             ScanStatus = "ERROR"
)

// Done reports whether the scan has been fully ingested.
func (in ScanStatus) Done() bool {
	return in == ScanStatusComplete
}

// Failed reports whether the scan will never be ingested.
func (in ScanStatus) Failed() bool {
	switch in {
	case ScanStatusCancelled, ScanStatusErrorScanning, ScanStatusErrorSavingData,
		ScanStatusErrorMatching, ScanStatusErrorBuildingBom, ScanStatusError:
		return true
	}

	return false
}

type Meta struct {
	Href  string `json:"href"`
	Links []Link `json:"links,omitempty"`
}

// Link returns the href of the named relation or an empty string.
func (in Meta) Link(rel string) string {
	for _, link := range in.Links {
		if link.Rel == rel {
			return link.Href
		}
	}

	return ""
}

type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// ScanSummary identifies a single uploaded scan.
type ScanSummary struct {
	Status        ScanStatus `json:"status"`
	StatusMessage string     `json:"statusMessage,omitempty"`
	Meta          Meta       `json:"_meta"`
}

type PolicyStatusType string

const (
	PolicyStatusNotInViolation        PolicyStatusType = "NOT_IN_VIOLATION"
	PolicyStatusInViolation           PolicyStatusType = "IN_VIOLATION"
	PolicyStatusInViolationOverridden PolicyStatusType = "IN_VIOLATION_OVERRIDDEN"
	PolicyStatusInProgress            PolicyStatusType = "IN_PROGRESS"
)

type PolicyStatus struct {
	OverallStatus PolicyStatusType `json:"overallStatus"`
	StatusCounts  []StatusCount    `json:"componentVersionStatusCounts"`
}

// Count returns the number of components with the given status.
func (in PolicyStatus) Count(status PolicyStatusType) int {
	for _, count := range in.StatusCounts {
		if count.Name == status {
			return count.Value
		}
	}

	return 0
}

type StatusCount struct {
	Name  PolicyStatusType `json:"name"`
	Value int              `json:"value"`
}

type RiskCategory string

const (
	RiskCategoryVulnerability RiskCategory = "VULNERABILITY"
	RiskCategoryLicense       RiskCategory = "LICENSE"
	RiskCategoryOperational   RiskCategory = "OPERATIONAL"
)

// RiskCounts maps a risk level (HIGH, MEDIUM, LOW, OK, UNKNOWN) to the
// number of components.
type RiskCounts map[string]int

type RiskProfile struct {
	Categories map[RiskCategory]RiskCounts `json:"categories"`
}

type Component struct {
	Name         string      `json:"componentName"`
	Version      string      `json:"componentVersionName"`
	Licenses     []License   `json:"licenses,omitempty"`
	PolicyStatus string      `json:"policyStatus,omitempty"`
	RiskProfile  RiskProfile `json:"securityRiskProfile"`
}

type License struct {
	Name string `json:"licenseDisplay"`
}

// RiskReport is the data rendered into the risk report files.
type RiskReport struct {
	ProjectName    string      `json:"projectName"`
	ProjectVersion string      `json:"projectVersion"`
	ProjectURL     string      `json:"projectURL"`
	VersionURL     string      `json:"versionURL"`
	GeneratedAt    time.Time   `json:"generatedAt"`
	RiskProfile    RiskProfile `json:"riskProfile"`
	Components     []Component `json:"components"`
}

type itemList[T any] struct {
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

type projectItem struct {
	Name string `json:"name"`
	Meta Meta   `json:"_meta"`
}

type versionItem struct {
	VersionName string `json:"versionName"`
	Meta        Meta   `json:"_meta"`
}

type client struct {
	// baseURL of the service without a trailing slash.
	baseURL string
	// username and password used to establish the session.
	username string
	password string
	// httpClient keeps the session cookie.
	httpClient *http.Client
	// limiter throttles outgoing requests.
	limiter *rate.Limiter
	// timeout of a single request.
	timeout time.Duration
	// proxy configuration applied to the transport.
	proxy *ProxyOptions
	// backoff steps for retryable requests.
	retrySteps int
	// retryDelay is the initial delay between retries.
	retryDelay time.Duration
	// userAgent sent with every request, empty keeps the default.
	userAgent string
	// connected is set after a successful login.
	connected bool
}

// ProxyOptions configure an HTTP proxy for all requests.
type ProxyOptions struct {
	Host         string
	Port         int
	Username     string
	Password     string
	IgnoredHosts []string
}

type Option func(*client)
