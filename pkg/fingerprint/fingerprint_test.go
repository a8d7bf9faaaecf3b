package fingerprint_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/fingerprint"
)

var _ = Describe("Hash", func() {
	It("returns the well-known digest for an empty input", func() {
		Expect(fingerprint.Hash(nil)).To(Equal(
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		))
	})

	It("returns the well-known digest for hello with a trailing newline", func() {
		Expect(fingerprint.HashString("hello\n")).To(Equal(
			"5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03",
		))
	})

	It("is deterministic", func() {
		a := fingerprint.HashString("the same content")
		b := fingerprint.HashString("the same content")
		Expect(a).To(Equal(b))
	})

	It("produces 64 lowercase hex characters", func() {
		h := fingerprint.HashString("anything at all")
		Expect(h).To(HaveLen(64))
		Expect(h).To(MatchRegexp(`^[0-9a-f]{64}$`))
	})

	It("treats string and byte input identically", func() {
		Expect(fingerprint.HashString("abc")).To(Equal(fingerprint.Hash([]byte("abc"))))
	})
})
