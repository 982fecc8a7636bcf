package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/client"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

// ReadSummaries reads the scan summaries the CLI wrote into the status
// directory of logDir. Every summary identifies one uploaded scan target.
func ReadSummaries(logDir string) ([]client.ScanSummary, error) {
	files, err := filepath.Glob(filepath.Join(logDir, StatusDirName, "*.json"))
	if err != nil {
		return nil, internalerrors.NewIntegrationError("could not list scan status files", err)
	}

	sort.Strings(files)
	summaries := make([]client.ScanSummary, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, internalerrors.NewIntegrationError(fmt.Sprintf("could not read scan status file %s", file), err)
		}

		summary := client.ScanSummary{}
		if err = json.Unmarshal(data, &summary); err != nil {
			return nil, internalerrors.NewIntegrationError(fmt.Sprintf("could not parse scan status file %s", file), err)
		}

		if len(summary.Meta.Href) == 0 {
			klog.V(log.LogLevelDefault).InfoS("skipping scan status without a link", "file", file)
			continue
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
