package scan

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pluralsh/polly/algorithms"
)

type ClassificationKind string

const (
	ClassificationSuccess       ClassificationKind = "SUCCESS"
	ClassificationFailure       ClassificationKind = "FAILURE"
	ClassificationRetryRequired ClassificationKind = "RETRY_REQUIRED"
)

const (
	markerFinished      = "Finished in"
	markerStatusSuccess = "with status SUCCESS"
	markerStatusFailure = "with status FAILURE"
)

// Recovery is a known CLI failure signature together with the log directory
// rewrite that works around it.
type Recovery struct {
	// Reason identifies the signature.
	Reason string
	// Marker must be present in the output for the signature to match.
	Marker string
	// Rewrite converts the log directory argument.
	Rewrite func(logDir string) string
}

type Classification struct {
	Kind ClassificationKind
	// Recovery is set only for ClassificationRetryRequired.
	Recovery *Recovery
}

// recoveries are checked in order, the first matching one wins.
var recoveries = []Recovery{
	{
		// The CLI can not handle spaces in the log directory.
		Reason:  "illegal-character-in-path",
		Marker:  "Illegal character in path",
		Rewrite: func(logDir string) string { return strings.ReplaceAll(logDir, " ", "%20") },
	},
	{
		Reason:  "illegal-character-in-opaque",
		Marker:  "Illegal character in opaque",
		Rewrite: toFileURI,
	},
}

// Classify decides the outcome of a CLI run from its combined output.
// Matches are case-sensitive.
func Classify(output string) Classification {
	if failed(output) {
		idx := algorithms.Index(recoveries, func(r Recovery) bool {
			return strings.Contains(output, r.Marker)
		})

		if idx >= 0 {
			return Classification{Kind: ClassificationRetryRequired, Recovery: &recoveries[idx]}
		}
	}

	return Classification{Kind: Result(output)}
}

// Result ignores recovery signatures and only reports whether the CLI
// finished successfully.
func Result(output string) ClassificationKind {
	if strings.Contains(output, markerFinished) && strings.Contains(output, markerStatusSuccess) {
		return ClassificationSuccess
	}

	return ClassificationFailure
}

func failed(output string) bool {
	return strings.Contains(output, markerFinished) && strings.Contains(output, markerStatusFailure)
}

// toFileURI converts a path to its file URI form, i.e. "/tmp/my logs"
// results in "file:/tmp/my%20logs/".
func toFileURI(logDir string) string {
	path := filepath.ToSlash(logDir)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	return "file:" + (&url.URL{Path: path}).EscapedPath()
}
