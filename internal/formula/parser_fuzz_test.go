//go:build go1.18

package formula

import (
	"context"
	"testing"
)

func FuzzParser_ParseString(f *testing.F) {
	f.Add(minimalFormula)
	f.Add(`formula = { name = "x", resources = { {} } }`)
	f.Add(`formula = 1`)

	parser := NewParser(nil)

	f.Fuzz(func(t *testing.T, luaCode string) {
		_, _ = parser.ParseString(context.Background(), luaCode)
	})
}

func FuzzDetectSecrets(f *testing.F) {
	f.Add(`token = "abcdefghijklmnopqrstuvwxyz"`)
	f.Add("url = \"https://user@github.com/o/r\"")

	f.Fuzz(func(t *testing.T, content string) {
		for _, finding := range DetectSecrets(content) {
			if finding.Line < 1 {
				t.Errorf("finding with line %d", finding.Line)
			}
		}
	})
}
