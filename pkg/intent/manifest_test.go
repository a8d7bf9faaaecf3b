package intent_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/trace"
)

func writeManifest(root, content string) {
	dir := filepath.Join(root, trace.Dir)
	ExpectWithOffset(1, os.MkdirAll(dir, 0o755)).To(Succeed())
	ExpectWithOffset(1, os.WriteFile(
		filepath.Join(dir, intent.ManifestFile), []byte(content), 0o644,
	)).To(Succeed())
}

var _ = Describe("LoadManifest", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "manifest-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns an empty list when the manifest is missing", func() {
		intents, err := intent.LoadManifest(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(intents).To(BeEmpty())
	})

	It("parses a top-level list", func() {
		writeManifest(tmpDir, `
- id: INT-001
  constraints: "keep the API stable"
  scope: "weather feature"
  owned_scope:
    - src/api/weather/**
    - src/utils/weather/*
- id: INT-002
`)
		intents, err := intent.LoadManifest(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(intents).To(HaveLen(2))
		Expect(intents[0].ID).To(Equal("INT-001"))
		Expect(intents[0].Constraints).To(Equal("keep the API stable"))
		Expect(intents[0].OwnedScope).To(Equal([]string{"src/api/weather/**", "src/utils/weather/*"}))
		Expect(intents[1].OwnedScope).To(BeEmpty())
	})

	It("parses an intents mapping", func() {
		writeManifest(tmpDir, `
intents:
  - intent_id: INT-003
    owned_scope: src/**
`)
		intents, err := intent.LoadManifest(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(intents).To(HaveLen(1))
		Expect(intents[0].ID).To(Equal("INT-003"))
		Expect(intents[0].OwnedScope).To(Equal([]string{"src/**"}))
	})

	It("drops entries without any id", func() {
		writeManifest(tmpDir, `
- constraints: "orphan"
- id: INT-004
`)
		intents, err := intent.LoadManifest(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(intents).To(HaveLen(1))
		Expect(intents[0].ID).To(Equal("INT-004"))
	})

	It("rejects malformed YAML", func() {
		writeManifest(tmpDir, "intents: [unclosed")
		_, err := intent.LoadManifest(tmpDir)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("FindIntent", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "manifest-test-*")
		Expect(err).NotTo(HaveOccurred())
		writeManifest(tmpDir, "- id: INT-001\n")
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("finds a declared intent", func() {
		found, err := intent.FindIntent(tmpDir, "INT-001")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).NotTo(BeNil())
	})

	It("returns nil for an undeclared intent", func() {
		found, err := intent.FindIntent(tmpDir, "INT-404")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())
	})
})
