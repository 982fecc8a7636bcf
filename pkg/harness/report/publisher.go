package report

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"path/filepath"

	"github.com/Masterminds/sprig/v3"
	"github.com/pluralsh/polly/algorithms"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/helpers"
	"github.com/pluralsh/scan-harness/pkg/client"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	// DirectoryName is the report directory inside the working directory
	// and the name of the published artifact.
	DirectoryName = "Hub_Risk_Report"

	JSONFileName = "riskreport.json"
	HTMLFileName = "riskreport.html"
)

var (
	//go:embed templates/riskreport.html.tmpl
	htmlTemplate string

	reportTemplate = template.Must(template.New(HTMLFileName).Funcs(sprig.FuncMap()).Parse(htmlTemplate))

	levels     = []string{"HIGH", "MEDIUM", "LOW", "OK", "UNKNOWN"}
	categories = []client.RiskCategory{client.RiskCategoryVulnerability, client.RiskCategoryLicense, client.RiskCategoryOperational}
)

// Reader fetches the risk report data.
type Reader interface {
	RiskReport(ctx context.Context, project, version string) (*client.RiskReport, error)
}

// Publisher writes the risk report files into the working directory.
type Publisher struct {
	reader Reader
}

func NewPublisher(reader Reader) *Publisher {
	return &Publisher{reader: reader}
}

// Publish replaces the report directory content and returns its path.
func (in *Publisher) Publish(ctx context.Context, workingDir, project, version string) (string, error) {
	report, err := in.reader.RiskReport(ctx, project, version)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(workingDir, DirectoryName)
	if err = helpers.File().Recreate(dir); err != nil {
		return "", internalerrors.NewIntegrationError("could not prepare the risk report directory", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", internalerrors.NewIntegrationError("could not encode the risk report", err)
	}

	if err = helpers.File().Create(filepath.Join(dir, JSONFileName), data); err != nil {
		return "", internalerrors.NewIntegrationError("could not write the risk report", err)
	}

	html, err := render(report)
	if err != nil {
		return "", internalerrors.NewIntegrationError("could not render the risk report", err)
	}

	if err = helpers.File().Create(filepath.Join(dir, HTMLFileName), html); err != nil {
		return "", internalerrors.NewIntegrationError("could not write the risk report", err)
	}

	klog.V(log.LogLevelExtended).InfoS("risk report written", "dir", dir, "components", len(report.Components))
	return dir, nil
}

type riskRow struct {
	Category string
	Counts   []int
}

func render(report *client.RiskReport) ([]byte, error) {
	rows := algorithms.Map(categories, func(category client.RiskCategory) riskRow {
		counts := report.RiskProfile.Categories[category]
		return riskRow{
			Category: string(category),
			Counts:   algorithms.Map(levels, func(level string) int { return counts[level] }),
		}
	})

	buffer := new(bytes.Buffer)
	err := reportTemplate.Execute(buffer, struct {
		*client.RiskReport
		Levels []string
		Rows   []riskRow
	}{report, levels, rows})

	return buffer.Bytes(), err
}
