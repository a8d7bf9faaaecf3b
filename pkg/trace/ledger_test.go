package trace_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/fingerprint"
	"github.com/papercomputeco/reins/pkg/mutation"
	"github.com/papercomputeco/reins/pkg/trace"
)

func sampleRecord(reqID, intentID, file string) *trace.Record {
	hash := fingerprint.HashString("hello\n")
	return &trace.Record{
		ReqID:         reqID,
		IntentID:      intentID,
		File:          file,
		Timestamp:     trace.FormatTimestamp(time.Now()),
		MutationClass: mutation.Evolution,
		ContentHash:   hash,
		Related:       []string{reqID},
		Ranges:        trace.Ranges{ContentHash: hash},
	}
}

var _ = Describe("Writer", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "ledger-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("creates the orchestration directory on first append", func() {
		w := trace.NewWriter(tmpDir)
		Expect(w.Append(sampleRecord("t-1", "INT-1", "src/a.ts"))).To(Succeed())

		_, err := os.Stat(filepath.Join(tmpDir, trace.Dir, trace.LedgerFile))
		Expect(err).NotTo(HaveOccurred())
	})

	It("appends one well-formed JSON line per record", func() {
		w := trace.NewWriter(tmpDir)
		Expect(w.Append(sampleRecord("t-1", "INT-1", "src/a.ts"))).To(Succeed())
		Expect(w.Append(sampleRecord("t-2", "INT-2", "src/b.ts"))).To(Succeed())

		f, err := os.Open(w.Path())
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		lines := 0
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines++
			var rec trace.Record
			Expect(json.Unmarshal(scanner.Bytes(), &rec)).To(Succeed())
			Expect(rec.Validate()).To(Succeed())
			Expect(rec.Ranges.ContentHash).To(Equal(rec.ContentHash))
		}
		Expect(lines).To(Equal(2))
	})

	It("never rewrites earlier records", func() {
		w := trace.NewWriter(tmpDir)
		Expect(w.Append(sampleRecord("t-1", "INT-1", "src/a.ts"))).To(Succeed())

		before, err := os.ReadFile(w.Path())
		Expect(err).NotTo(HaveOccurred())

		Expect(w.Append(sampleRecord("t-2", "INT-1", "src/b.ts"))).To(Succeed())

		after, err := os.ReadFile(w.Path())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(after)).To(HavePrefix(string(before)))
	})

	It("rejects a record whose range hash drifted", func() {
		rec := sampleRecord("t-1", "INT-1", "src/a.ts")
		rec.Ranges.ContentHash = "0000"
		Expect(trace.NewWriter(tmpDir).Append(rec)).To(MatchError(trace.ErrHashMismatch))
	})

	It("rejects a record with a vcs block but no revision", func() {
		rec := sampleRecord("t-1", "INT-1", "src/a.ts")
		rec.VCS = &trace.VCS{Branch: "main"}
		Expect(trace.NewWriter(tmpDir).Append(rec)).To(MatchError(trace.ErrEmptyRevision))
	})
})

var _ = Describe("Reader", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "ledger-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns nothing for a missing ledger", func() {
		records, err := trace.NewReader(tmpDir, nil).Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})

	It("round-trips appended records", func() {
		w := trace.NewWriter(tmpDir)
		Expect(w.Append(sampleRecord("t-1", "INT-1", "src/a.ts"))).To(Succeed())
		Expect(w.Append(sampleRecord("t-2", "INT-2", "src/b.ts"))).To(Succeed())

		records, err := trace.NewReader(tmpDir, nil).Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].ReqID).To(Equal("t-1"))
		Expect(records[1].File).To(Equal("src/b.ts"))
	})

	It("skips malformed lines and keeps reading", func() {
		w := trace.NewWriter(tmpDir)
		Expect(w.Append(sampleRecord("t-1", "INT-1", "src/a.ts"))).To(Succeed())

		f, err := os.OpenFile(w.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
		Expect(err).NotTo(HaveOccurred())
		_, err = f.WriteString("{not json}\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Close()).To(Succeed())

		Expect(w.Append(sampleRecord("t-2", "INT-1", "src/b.ts"))).To(Succeed())

		records, err := trace.NewReader(tmpDir, nil).Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
	})

	It("filters by intent and file and paginates", func() {
		w := trace.NewWriter(tmpDir)
		Expect(w.Append(sampleRecord("t-1", "INT-1", "src/a.ts"))).To(Succeed())
		Expect(w.Append(sampleRecord("t-2", "INT-2", "src/a.ts"))).To(Succeed())
		Expect(w.Append(sampleRecord("t-3", "INT-1", "src/b.ts"))).To(Succeed())

		r := trace.NewReader(tmpDir, nil)

		byIntent, err := r.ReadFiltered(trace.Query{IntentID: "INT-1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(byIntent).To(HaveLen(2))

		byFile, err := r.ReadFiltered(trace.Query{File: "src/a.ts"})
		Expect(err).NotTo(HaveOccurred())
		Expect(byFile).To(HaveLen(2))

		limited, err := r.ReadFiltered(trace.Query{IntentID: "INT-1", Limit: 1, Offset: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(limited).To(HaveLen(1))
		Expect(limited[0].ReqID).To(Equal("t-3"))
	})
})

var _ = Describe("Tracker", func() {
	It("treats unknown paths as unchanged", func() {
		t := trace.NewTracker()
		Expect(t.Unchanged("src/new.ts", "anything")).To(BeTrue())
	})

	It("detects out-of-band modification", func() {
		t := trace.NewTracker()
		t.Store("src/a.ts", "v1")
		Expect(t.Unchanged("src/a.ts", "v1")).To(BeTrue())
		Expect(t.Unchanged("src/a.ts", "v2")).To(BeFalse())
	})

	It("tracks the latest stored content", func() {
		t := trace.NewTracker()
		t.Store("src/a.ts", "v1")
		t.Store("src/a.ts", "v3")
		Expect(t.Unchanged("src/a.ts", "v3")).To(BeTrue())
		Expect(t.Unchanged("src/a.ts", "v1")).To(BeFalse())
	})

	It("normalizes separators when keying", func() {
		t := trace.NewTracker()
		t.Store(`src\a.ts`, "v1")
		Expect(t.Unchanged("src/a.ts", "v1")).To(BeTrue())
	})

	It("clears one path or all paths", func() {
		t := trace.NewTracker()
		t.Store("a", "1")
		t.Store("b", "2")

		t.Clear("a")
		Expect(t.Len()).To(Equal(1))

		t.ClearAll()
		Expect(t.Len()).To(BeZero())
		Expect(t.Unchanged("b", "changed")).To(BeTrue())
	})
})
