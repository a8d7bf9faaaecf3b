package vcs_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/vcs"
)

var _ = Describe("Probes outside a repository", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "vcs-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("reports an absent revision", func() {
		Expect(vcs.CurrentRevision(tmpDir)).To(BeEmpty())
	})

	It("reports an absent branch", func() {
		Expect(vcs.CurrentBranch(tmpDir)).To(BeEmpty())
	})

	It("reports an absent HEAD file", func() {
		content, ok := vcs.FileAtHead(tmpDir, "src/a.ts")
		Expect(ok).To(BeFalse())
		Expect(content).To(BeEmpty())
	})

	It("does not treat a plain .git file owner as fatal", func() {
		// Worktree layouts keep .git as a file; the probe must still degrade
		// to absent rather than erroring when git rejects the directory.
		Expect(os.WriteFile(tmpDir+"/.git", []byte("gitdir: /nowhere"), 0o644)).To(Succeed())
		Expect(vcs.CurrentRevision(tmpDir)).To(BeEmpty())
	})
})
