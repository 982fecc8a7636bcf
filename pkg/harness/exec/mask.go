package exec

import (
	"strings"

	"github.com/samber/lo"
)

const (
	FlagPassword = "--password"

	maskCharacter       = "*"
	proxyPropertyMarker = "-Dhttp"
	proxyPasswordMarker = "proxyPassword"
)

// Mask returns a copy of args safe for logging. The value following the
// password flag and every proxy password system property are replaced with
// a mask of the same length. The input slice is never modified.
func Mask(args []string) []string {
	masked := append([]string{}, args...)
	passwordIdx := lo.IndexOf(masked, FlagPassword) + 1
	for i, arg := range masked {
		if (passwordIdx > 0 && i == passwordIdx) || isProxyPassword(arg) {
			masked[i] = strings.Repeat(maskCharacter, len(arg))
		}
	}

	return masked
}

// MaskedCommand joins the masked arguments into a single log line.
func MaskedCommand(args []string) string {
	return strings.Join(Mask(args), " ")
}

func isProxyPassword(arg string) bool {
	return strings.Contains(arg, proxyPropertyMarker) && strings.Contains(arg, proxyPasswordMarker)
}
