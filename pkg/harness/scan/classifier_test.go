package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluralsh/scan-harness/pkg/harness/scan"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected scan.ClassificationKind
		reason   string
	}{
		{
			name:     "success",
			output:   "INFO: Finished in 12 seconds with status SUCCESS",
			expected: scan.ClassificationSuccess,
		},
		{
			name:     "failure",
			output:   "INFO: Finished in 12 seconds with status FAILURE",
			expected: scan.ClassificationFailure,
		},
		{
			name:     "no markers",
			output:   "Exception in thread main",
			expected: scan.ClassificationFailure,
		},
		{
			name:     "illegal character in path",
			output:   "java.net.URISyntaxException: Illegal character in path at index 9\nFinished in 1 second with status FAILURE",
			expected: scan.ClassificationRetryRequired,
			reason:   "illegal-character-in-path",
		},
		{
			name:     "illegal character in opaque",
			output:   "java.net.URISyntaxException: Illegal character in opaque part at index 2\nFinished in 1 second with status FAILURE",
			expected: scan.ClassificationRetryRequired,
			reason:   "illegal-character-in-opaque",
		},
		{
			name:     "path signature wins over opaque",
			output:   "Illegal character in opaque\nIllegal character in path\nFinished in 1 second with status FAILURE",
			expected: scan.ClassificationRetryRequired,
			reason:   "illegal-character-in-path",
		},
		{
			name:     "signature without failure markers",
			output:   "Illegal character in path\nFinished in 1 second with status SUCCESS",
			expected: scan.ClassificationSuccess,
		},
		{
			name:     "matching is case sensitive",
			output:   "illegal character in path\nFinished in 1 second with status FAILURE",
			expected: scan.ClassificationFailure,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			classification := scan.Classify(test.output)
			assert.Equal(t, test.expected, classification.Kind)
			if len(test.reason) == 0 {
				assert.Nil(t, classification.Recovery)
				return
			}

			require.NotNil(t, classification.Recovery)
			assert.Equal(t, test.reason, classification.Recovery.Reason)
		})
	}
}

func TestRecoveryRewrites(t *testing.T) {
	path := scan.Classify("Illegal character in path Finished in with status FAILURE").Recovery
	assert.Equal(t, "/work/my%20dir/HubScanLogs/1", path.Rewrite("/work/my dir/HubScanLogs/1"))

	opaque := scan.Classify("Illegal character in opaque Finished in with status FAILURE").Recovery
	assert.Equal(t, "file:/work/my%20dir/HubScanLogs/1/", opaque.Rewrite("/work/my dir/HubScanLogs/1"))
}

func TestSupportsLogOption(t *testing.T) {
	assert.True(t, scan.SupportsLogOption("2.0.0"))
	assert.True(t, scan.SupportsLogOption("3.1.2"))
	assert.True(t, scan.SupportsLogOption("2.4.0-SNAPSHOT"))
	assert.False(t, scan.SupportsLogOption("1.4.1"))
	assert.False(t, scan.SupportsLogOption("not-a-version"))
}

func TestSameVersion(t *testing.T) {
	assert.True(t, scan.SameVersion("3.1.0", "v3.1.0"))
	assert.False(t, scan.SameVersion("3.1.0", "3.2.0"))
	assert.False(t, scan.SameVersion("", "3.2.0"))
	assert.True(t, scan.SameVersion("custom", "custom"))
}
