package scope_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/scope"
)

var _ = Describe("IsWithin", func() {
	owned := []string{"a/b/**"}

	It("matches the pattern base itself", func() {
		Expect(scope.IsWithin("a/b", owned)).To(BeTrue())
	})

	It("matches a direct child", func() {
		Expect(scope.IsWithin("a/b/c", owned)).To(BeTrue())
	})

	It("matches a nested descendant", func() {
		Expect(scope.IsWithin("a/b/c/d", owned)).To(BeTrue())
	})

	It("does not match a sibling sharing the prefix string", func() {
		Expect(scope.IsWithin("a/bc", owned)).To(BeFalse())
	})

	It("treats a single-star suffix like the base prefix", func() {
		Expect(scope.IsWithin("src/utils/weather/format.ts", []string{"src/utils/weather/*"})).To(BeTrue())
		Expect(scope.IsWithin("src/utils/other.ts", []string{"src/utils/weather/*"})).To(BeFalse())
	})

	It("matches bare patterns without wildcards by prefix", func() {
		Expect(scope.IsWithin("src/api/handler.go", []string{"src/api"})).To(BeTrue())
	})

	It("never matches an empty owned scope", func() {
		Expect(scope.IsWithin("anything", nil)).To(BeFalse())
	})

	It("skips patterns that strip down to nothing", func() {
		Expect(scope.IsWithin("anything", []string{"/**", "/*"})).To(BeFalse())
	})

	It("normalizes backslashes in both path and pattern", func() {
		Expect(scope.IsWithin(`src\api\weather\client.ts`, []string{`src\api\weather\**`})).To(BeTrue())
	})

	It("ignores a leading ./ on the relative path", func() {
		Expect(scope.IsWithin("./a/b/c", owned)).To(BeTrue())
	})
})
