package plague_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPlague(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Plague Suite")
}
