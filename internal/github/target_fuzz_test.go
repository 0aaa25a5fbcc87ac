//go:build go1.18

package github

import (
	"strings"
	"testing"
)

func FuzzParseTarget(f *testing.F) {
	f.Add("https://github.com/acme/tools/releases/download/v1.0/tool.tar.gz")
	f.Add("https://github.com/acme/internal/blob/main/payload.bin")
	f.Add("https://github.com//releases/download//")

	f.Fuzz(func(t *testing.T, rawURL string) {
		target, err := ParseTarget(StrategyAuto, rawURL)
		if err != nil {
			return
		}
		if target.Owner == "" || target.Repo == "" || strings.Contains(target.Owner, "/") {
			t.Errorf("ParseTarget(%q) = %+v", rawURL, target)
		}
		if target.Strategy == StrategyRelease && (target.Tag == "" || target.Filename == "") {
			t.Errorf("release target missing tag or file: %+v", target)
		}
	})
}
