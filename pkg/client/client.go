package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/helpers"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	loginPath     = "/j_spring_security_check"
	versionPath   = "/api/v1/current-version"
	projectsPath  = "/api/projects"
	cliPath       = "/download/scan.cli.zip"
	componentsMax = 1000

	relVersions     = "versions"
	relPolicyStatus = "policy-status"
	relRiskProfile  = "riskProfile"
	relComponents   = "components"

	defaultTimeout    = 120 * time.Second
	defaultRetrySteps = 4
	defaultRetryDelay = time.Second
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.code, e.url)
}

func (e *statusError) Is(target error) bool {
	return target == ErrNotFound && e.code == http.StatusNotFound
}

func (e *statusError) retryable() bool {
	return e.code >= http.StatusInternalServerError || e.code == http.StatusTooManyRequests
}

func (in *client) Connect(ctx context.Context) error {
	form := url.Values{}
	form.Set("j_username", in.username)
	form.Set("j_password", in.password)

	err := in.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, in.baseURL+loginPath, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, nil)
	if err != nil {
		return internalerrors.NewIntegrationError("could not connect to the Hub server", err)
	}

	in.connected = true
	klog.V(log.LogLevelInfo).InfoS("connected", "url", in.baseURL, "user", in.username)
	return nil
}

func (in *client) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := in.get(ctx, in.baseURL+versionPath, &version); err != nil {
		return "", internalerrors.NewIntegrationError("could not read the Hub server version", err)
	}

	return version, nil
}

func (in *client) ScanSummary(ctx context.Context, href string) (*ScanSummary, error) {
	summary := new(ScanSummary)
	if err := in.get(ctx, href, summary); err != nil {
		return nil, internalerrors.NewIntegrationError("could not read the scan status", err)
	}

	if len(summary.Meta.Href) == 0 {
		summary.Meta.Href = href
	}

	return summary, nil
}

func (in *client) PolicyStatus(ctx context.Context, project, version string) (*PolicyStatus, error) {
	projectVersion, err := in.projectVersion(ctx, project, version)
	if err != nil {
		return nil, err
	}

	href := projectVersion.Meta.Link(relPolicyStatus)
	if len(href) == 0 {
		klog.V(log.LogLevelDefault).InfoS("policy status link not found", "project", project, "version", version)
		return nil, nil
	}

	status := new(PolicyStatus)
	err = in.get(ctx, href, status)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, internalerrors.NewIntegrationError("could not read the policy status", err)
	}

	return status, nil
}

func (in *client) RiskReport(ctx context.Context, project, version string) (*RiskReport, error) {
	projectVersion, err := in.projectVersion(ctx, project, version)
	if err != nil {
		return nil, err
	}

	report := &RiskReport{
		ProjectName:    project,
		ProjectVersion: version,
		VersionURL:     projectVersion.Meta.Href,
		ProjectURL:     strings.SplitN(projectVersion.Meta.Href, "/versions/", 2)[0],
		GeneratedAt:    time.Now().UTC(),
	}

	if href := projectVersion.Meta.Link(relRiskProfile); len(href) > 0 {
		if err = in.get(ctx, href, &report.RiskProfile); err != nil {
			return nil, internalerrors.NewIntegrationError("could not read the risk profile", err)
		}
	}

	if href := projectVersion.Meta.Link(relComponents); len(href) > 0 {
		components := new(itemList[Component])
		if err = in.get(ctx, fmt.Sprintf("%s?limit=%d", href, componentsMax), components); err != nil {
			return nil, internalerrors.NewIntegrationError("could not read the bom components", err)
		}

		report.Components = components.Items
	}

	return report, nil
}

func (in *client) DownloadCLI(ctx context.Context, destination string) error {
	_, err := helpers.Fetch(
		helpers.FetchWithContext(ctx),
		helpers.FetchWithTransport(in.httpClient.Transport),
		helpers.FetchToDir(destination),
	).Archive(in.baseURL + cliPath)
	if err != nil {
		return internalerrors.NewIntegrationError("could not download the Hub scan CLI", err)
	}

	return nil
}

func (in *client) projectVersion(ctx context.Context, project, version string) (*versionItem, error) {
	projects := new(itemList[projectItem])
	query := url.Values{"q": []string{"name:" + project}}
	if err := in.get(ctx, in.baseURL+projectsPath+"?"+query.Encode(), projects); err != nil {
		return nil, internalerrors.NewIntegrationError("could not find the project", err)
	}

	p, found := findByName(projects.Items, project, func(p projectItem) string { return p.Name })
	if !found {
		return nil, internalerrors.NewIntegrationError(fmt.Sprintf("could not find the project %s", project), ErrNotFound)
	}

	versionsHref := p.Meta.Link(relVersions)
	if len(versionsHref) == 0 {
		versionsHref = p.Meta.Href + "/versions"
	}

	versions := new(itemList[versionItem])
	query = url.Values{"q": []string{"versionName:" + version}}
	if err := in.get(ctx, versionsHref+"?"+query.Encode(), versions); err != nil {
		return nil, internalerrors.NewIntegrationError("could not find the project version", err)
	}

	v, found := findByName(versions.Items, version, func(v versionItem) string { return v.VersionName })
	if !found {
		return nil, internalerrors.NewIntegrationError(fmt.Sprintf("could not find the version %s of project %s", version, project), ErrNotFound)
	}

	return &v, nil
}

func findByName[T any](items []T, name string, nameFunc func(T) string) (T, bool) {
	for _, item := range items {
		if nameFunc(item) == name {
			return item, true
		}
	}

	var zero T
	return zero, false
}

func (in *client) get(ctx context.Context, href string, result any) error {
	if !in.connected {
		return errors.New("client is not connected")
	}

	return in.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/json")
		return req, nil
	}, result)
}

// do sends the request and decodes a JSON response into result if provided.
// Transport errors and server side errors are retried with an exponential backoff.
func (in *client) do(ctx context.Context, request func(ctx context.Context) (*http.Request, error), result any) error {
	backoff := wait.Backoff{
		Duration: in.retryDelay,
		Factor:   2.0,
		Jitter:   0.1,
		Steps:    in.retrySteps,
	}

	var lastErr error
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		req, err := request(ctx)
		if err != nil {
			return false, err
		}

		resp, err := in.httpClient.Do(req)
		if err != nil {
			lastErr = err
			klog.V(log.LogLevelDefault).InfoS("request failed, will retry", "url", req.URL.String(), "error", err)
			return false, nil
		}
		defer in.handleCloseResponseBody(resp)

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			statusErr := &statusError{code: resp.StatusCode, url: req.URL.String()}
			if !statusErr.retryable() {
				return false, statusErr
			}

			lastErr = statusErr
			klog.V(log.LogLevelDefault).InfoS("bad status code, will retry", "url", req.URL.String(), "code", resp.StatusCode)
			return false, nil
		}

		if result == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return true, nil
		}

		if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("could not decode response from %s: %w", req.URL.String(), err)
		}

		return true, nil
	})

	if wait.Interrupted(err) && lastErr != nil {
		return fmt.Errorf("%w; last error: %w", err, lastErr)
	}

	return err
}

func (in *client) handleCloseResponseBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		klog.ErrorS(err, "failed to close response body")
	}
}

func (in *client) init() (Client, error) {
	if in.timeout <= 0 {
		in.timeout = defaultTimeout
	}

	if in.limiter == nil {
		in.limiter = rate.NewLimiter(rate.Limit(10), 20)
	}

	if in.retrySteps <= 0 {
		in.retrySteps = defaultRetrySteps
	}

	if in.retryDelay <= 0 {
		in.retryDelay = defaultRetryDelay
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	in.httpClient = &http.Client{
		Jar:       jar,
		Timeout:   in.timeout,
		Transport: newTransport(in.proxy, in.limiter, in.userAgent),
	}

	return in, nil
}

// New creates a client for the service available at baseURL.
func New(baseURL string, options ...Option) (Client, error) {
	result := &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}

	for _, option := range options {
		option(result)
	}

	return result.init()
}
