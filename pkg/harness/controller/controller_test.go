package controller_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/pluralsh/scan-harness/pkg/client"
	"github.com/pluralsh/scan-harness/pkg/harness/bom"
	"github.com/pluralsh/scan-harness/pkg/harness/config"
	"github.com/pluralsh/scan-harness/pkg/harness/controller"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
	"github.com/pluralsh/scan-harness/pkg/harness/policy"
	"github.com/pluralsh/scan-harness/pkg/harness/report"
	"github.com/pluralsh/scan-harness/pkg/test/mocks"
)

const (
	serverVersion = "2023.4.0"
	scanHref      = "https://hub.example.com/api/scan-summaries/1"
)

// cliScript records every invocation into calls, writes a scan summary into
// the status directory and finishes with the given status.
func cliScript(calls, status string) string {
	return fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
prev=""
for arg in "$@"; do
  if [ "$prev" = "--statusWriteDir" ]; then
    mkdir -p "$arg"
    echo '{"status":"SCANNING","_meta":{"href":"%s"}}' > "$arg/scan.json"
  fi
  prev="$arg"
done
echo "Finished in 1 seconds with status %s"
`, calls, scanHref, status)
}

func setupAgentTools(dir, script string) {
	home := filepath.Join(dir, "HubCLI", "scan.cli-2023.4.0")
	Expect(os.MkdirAll(filepath.Join(home, "lib"), 0755)).To(Succeed())
	Expect(os.MkdirAll(filepath.Join(home, "jre", "bin"), 0755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(home, "lib", "scan.cli-2023.4.0-standalone.jar"), []byte("jar"), 0644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(home, "jre", "bin", "java"), []byte(script), 0755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "HubCLI", "version.txt"), []byte(serverVersion), 0644)).To(Succeed())
}

func readCalls(calls string) []string {
	data, err := os.ReadFile(calls)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	Expect(err).NotTo(HaveOccurred())

	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

var _ = Describe("Scan Controller", func() {
	var (
		ctx        context.Context
		workingDir string
		toolsDir   string
		calls      string
		out        *bytes.Buffer
		settings   *parameters.Settings
		features   []host.Feature
		remote     *mocks.ClientMock
		created    bool
		userAgent  string
		extra      []controller.Option
	)

	start := func() controller.BuildResult {
		h := host.NewTeamCity(out, host.WithFeatures(features...))
		options := append([]controller.Option{
			controller.WithHost(h),
			controller.WithSettings(settings),
			controller.WithClientFactory(func(server *config.ServerConfig, scan *config.ScanConfig) (client.Client, error) {
				created = true
				userAgent = controller.UserAgent(scan)
				return remote, nil
			}),
			controller.WithSettleDelay(0),
			controller.WithWaiterOptions(bom.WithInterval(10 * time.Millisecond)),
		}, extra...)

		ctrl, err := controller.NewScanController(options...)
		Expect(err).NotTo(HaveOccurred())

		return ctrl.Start(ctx)
	}

	expectConnected := func() {
		remote.On("Connect", mock.Anything).Return(nil).Once()
		remote.On("ServerVersion", mock.Anything).Return(serverVersion, nil).Once()
	}

	stopCount := func() int {
		return strings.Count(out.String(), "##teamcity[buildStop")
	}

	BeforeEach(func() {
		ctx = context.Background()
		workingDir = GinkgoT().TempDir()
		toolsDir = GinkgoT().TempDir()
		calls = filepath.Join(GinkgoT().TempDir(), "calls")
		out = new(bytes.Buffer)
		features = nil
		created = false
		userAgent = ""
		extra = nil
		remote = mocks.NewClientMock(GinkgoT())

		setupAgentTools(toolsDir, cliScript(calls, "SUCCESS"))

		settings = &parameters.Settings{
			ServerURL:      "https://hub.example.com",
			Username:       "sysadmin",
			Password:       "blackduck",
			ProjectName:    "ui",
			ProjectVersion: "1.0",
			BuildNumber:    "42",
			ServerVersion:  "2024.1",
			PluginName:     "hub-teamcity-3.1.0",
			AgentToolsDir:  toolsDir,
			WorkingDir:     workingDir,
		}
	})

	Context("when the server configuration is invalid", func() {
		It("should fail without running the scan", func() {
			settings.ServerURL = ""

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(created).To(BeFalse())
			Expect(readCalls(calls)).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring(controller.MessageVerifyPlugin))
			Expect(out.String()).To(ContainSubstring(controller.MessageVerifyConfig))
		})

		It("should fail on a malformed timeout", func() {
			settings.ConnectionTimeout = "ten"

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(created).To(BeFalse())
		})
	})

	Context("when only the scan is requested", func() {
		It("should run the CLI once and succeed", func() {
			expectConnected()

			Expect(start()).To(Equal(controller.BuildResultSuccess))
			Expect(readCalls(calls)).To(HaveLen(1))

			log := out.String()
			Expect(log).To(ContainSubstring("Running on machine : "))
			Expect(log).To(ContainSubstring("TeamCity version : 2024.1"))
			Expect(log).To(ContainSubstring("Hub TeamCity Plugin version : 3.1.0"))
			Expect(log).To(ContainSubstring("--> Hub Server Url : https://hub.example.com"))
			Expect(log).To(ContainSubstring("--> Generate Risk Report : false"))
			Expect(log).To(ContainSubstring("--> Check Policies : false"))
			Expect(log).NotTo(ContainSubstring("blackduck"))
			Expect(log).NotTo(ContainSubstring("Waiting for Bom to be updated"))
			Expect(filepath.Join(workingDir, "HubScanLogs", "42")).To(BeADirectory())
			Expect(userAgent).To(Equal("TeamCity/2024.1 scan-harness/3.1.0"))
		})

		It("should fall back to defaults for malformed parameters", func() {
			decoded, err := parameters.Decode(map[string]string{
				parameters.KeyScanMemory: "abc",
				parameters.KeyDryRun:     "yes",
			})
			Expect(err).NotTo(HaveOccurred())
			settings.ScanMemory = decoded.ScanMemory
			settings.DryRun = decoded.DryRun
			expectConnected()

			Expect(start()).To(Equal(controller.BuildResultSuccess))
			Expect(readCalls(calls)).To(HaveLen(1))
			Expect(readCalls(calls)[0]).To(ContainSubstring("-Xmx4096m"))
			Expect(readCalls(calls)[0]).NotTo(ContainSubstring("--dryRunWriteDir"))
			Expect(out.String()).To(ContainSubstring("Will use the default memory, 4096"))
		})

		It("should fail when the scan fails", func() {
			setupAgentTools(toolsDir, cliScript(calls, "FAILURE"))
			settings.GenerateRiskReport = true
			expectConnected()

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(readCalls(calls)).To(HaveLen(1))
			Expect(out.String()).NotTo(ContainSubstring("Waiting for Bom to be updated"))
		})

		It("should fail when the connection fails", func() {
			remote.On("Connect", mock.Anything).
				Return(internalerrors.NewIntegrationError("could not log in", errors.New("401"))).Once()

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(readCalls(calls)).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("could not log in"))
		})
	})

	Context("when it is a dry run", func() {
		It("should skip the report and the policy check", func() {
			settings.DryRun = true
			settings.GenerateRiskReport = true
			features = []host.Feature{{Type: host.FeaturePolicyFailureCondition}}
			expectConnected()

			Expect(start()).To(Equal(controller.BuildResultSuccess))
			Expect(readCalls(calls)).To(HaveLen(1))
			Expect(out.String()).To(ContainSubstring(controller.MessageReportDryRun))
			Expect(out.String()).To(ContainSubstring(policy.MessageDryRun))
			Expect(stopCount()).To(Equal(0))

			remote.AssertNotCalled(GinkgoT(), "ScanSummary", mock.Anything, mock.Anything)
			remote.AssertNotCalled(GinkgoT(), "RiskReport", mock.Anything, mock.Anything, mock.Anything)
			remote.AssertNotCalled(GinkgoT(), "PolicyStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	})

	Context("when the report and the policy check are requested", func() {
		BeforeEach(func() {
			settings.GenerateRiskReport = true
			settings.MaxWaitTimeMinutes = 1
			features = []host.Feature{{Type: host.FeaturePolicyFailureCondition}}
			expectConnected()
			remote.On("ScanSummary", mock.Anything, scanHref).
				Return(&client.ScanSummary{Status: client.ScanStatusComplete}, nil).Once()
		})

		It("should publish the report and succeed when not in violation", func() {
			remote.On("RiskReport", mock.Anything, "ui", "1.0").
				Return(&client.RiskReport{ProjectName: "ui", ProjectVersion: "1.0"}, nil).Once()
			remote.On("PolicyStatus", mock.Anything, "ui", "1.0").
				Return(&client.PolicyStatus{OverallStatus: client.PolicyStatusNotInViolation}, nil).Once()

			Expect(start()).To(Equal(controller.BuildResultSuccess))

			reportDir := filepath.Join(workingDir, report.DirectoryName)
			Expect(filepath.Join(reportDir, report.HTMLFileName)).To(BeAnExistingFile())
			Expect(out.String()).To(ContainSubstring(fmt.Sprintf("##teamcity[publishArtifacts '%s => %s']", reportDir, report.DirectoryName)))
			Expect(out.String()).To(ContainSubstring("--> Bom wait time : 1"))
			Expect(out.String()).To(ContainSubstring("The Hub found: 0 components in violation"))
			Expect(stopCount()).To(Equal(0))
		})

		It("should stop the build once when in violation", func() {
			remote.On("RiskReport", mock.Anything, "ui", "1.0").
				Return(&client.RiskReport{ProjectName: "ui", ProjectVersion: "1.0"}, nil).Once()
			remote.On("PolicyStatus", mock.Anything, "ui", "1.0").
				Return(&client.PolicyStatus{
					OverallStatus: client.PolicyStatusInViolation,
					StatusCounts:  []client.StatusCount{{Name: client.PolicyStatusInViolation, Value: 2}},
				}, nil).Once()

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(stopCount()).To(Equal(1))
			Expect(out.String()).To(ContainSubstring("The Hub found: 2 components in violation"))
		})

		It("should stop the build once when the policy status is missing", func() {
			remote.On("RiskReport", mock.Anything, "ui", "1.0").
				Return(&client.RiskReport{ProjectName: "ui", ProjectVersion: "1.0"}, nil).Once()
			remote.On("PolicyStatus", mock.Anything, "ui", "1.0").Return(nil, nil).Once()

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(stopCount()).To(Equal(1))
			Expect(out.String()).To(ContainSubstring(policy.MessageStatusMissing))
		})
	})

	Context("when the CLI does not write a scan status", func() {
		It("should warn before generating the report", func() {
			setupAgentTools(toolsDir, "#!/bin/sh\necho \"Finished in 1 seconds with status SUCCESS\"\n")
			settings.GenerateRiskReport = true
			expectConnected()
			remote.On("RiskReport", mock.Anything, "ui", "1.0").
				Return(&client.RiskReport{ProjectName: "ui", ProjectVersion: "1.0"}, nil).Once()

			Expect(start()).To(Equal(controller.BuildResultSuccess))
			Expect(out.String()).To(ContainSubstring(controller.MessageNoSummaries))
			remote.AssertNotCalled(GinkgoT(), "ScanSummary", mock.Anything, mock.Anything)
		})
	})

	Context("when the bom is not ready in time", func() {
		It("should fail with a timeout", func() {
			features = []host.Feature{{Type: host.FeaturePolicyFailureCondition}}
			extra = []controller.Option{controller.WithDefaultBomWaitTime(100 * time.Millisecond)}
			expectConnected()
			remote.On("ScanSummary", mock.Anything, scanHref).
				Return(&client.ScanSummary{Status: client.ScanStatusScanning}, nil)

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(out.String()).To(ContainSubstring("The Bom has not finished updating from the scan within the specified wait time"))
			Expect(stopCount()).To(Equal(0))
			remote.AssertNotCalled(GinkgoT(), "PolicyStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	})

	Context("when a step panics", func() {
		It("should recover and fail", func() {
			extra = []controller.Option{controller.WithClientFactory(func(*config.ServerConfig, *config.ScanConfig) (client.Client, error) {
				panic("boom")
			})}

			Expect(start()).To(Equal(controller.BuildResultFailed))
			Expect(out.String()).To(ContainSubstring("panic: boom [recovered]"))
		})
	})
})
