package policy

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/metrics"
	"github.com/pluralsh/scan-harness/pkg/client"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	MessageDryRun        = "Will not run the Failure conditions because this was a dry run scan."
	MessageStatusMissing = "Could not find any information about the Policy status of the bom."
)

// StatusReader fetches the policy status of a project version. It returns
// nil without an error when no status is available.
type StatusReader interface {
	PolicyStatus(ctx context.Context, project, version string) (*client.PolicyStatus, error)
}

// Evaluator decides whether the build has to be halted based on the remote
// policy verdict. The status is fetched fresh on every evaluation.
type Evaluator struct {
	reader     StatusReader
	logger     host.Logger
	controller host.BuildController
}

func NewEvaluator(reader StatusReader, logger host.Logger, controller host.BuildController) *Evaluator {
	return &Evaluator{
		reader:     reader,
		logger:     logger,
		controller: controller,
	}
}

// Evaluate stops the build at most once. It returns a PolicyLookupError when
// no status could be found, a PolicyViolationError when the project version
// is in violation and an IntegrationError when the status could not be read.
func (in *Evaluator) Evaluate(ctx context.Context, project, version string, dryRun bool) error {
	if dryRun {
		in.logger.Warn(MessageDryRun)
		return nil
	}

	status, err := in.reader.PolicyStatus(ctx, project, version)
	if err != nil {
		in.logger.Error(err.Error())
		in.controller.StopBuild(err.Error())

		if errors.Is(err, internalerrors.ErrIntegration) {
			return err
		}

		return internalerrors.NewIntegrationError("could not read the policy status", err)
	}

	if status == nil {
		in.logger.Error(MessageStatusMissing)
		in.controller.StopBuild(MessageStatusMissing)
		return internalerrors.NewPolicyLookupError(MessageStatusMissing)
	}

	metrics.Record().PolicyStatus(string(status.OverallStatus))
	klog.V(log.LogLevelInfo).InfoS("policy status", "project", project, "version", version, "status", status.OverallStatus)

	description := Describe(status)
	if status.OverallStatus == client.PolicyStatusInViolation {
		in.controller.StopBuild(description)
		return internalerrors.NewPolicyViolationError(description)
	}

	in.logger.Info(description)
	return nil
}

// Describe renders the per status component counts.
func Describe(status *client.PolicyStatus) string {
	return fmt.Sprintf(
		"The Hub found: %d components in violation, %d components in violation, but overridden, and %d components not in violation.",
		status.Count(client.PolicyStatusInViolation),
		status.Count(client.PolicyStatusInViolationOverridden),
		status.Count(client.PolicyStatusNotInViolation),
	)
}
