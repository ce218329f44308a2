//go:build lint

package autopage_test

import (
	"testing"

	"lesiw.io/autopage/internal/testcheck"
)

func TestLint(t *testing.T) { testcheck.Run(t) }
