package sqlite_test

import (
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/fingerprint"
	"github.com/papercomputeco/reins/pkg/mutation"
	"github.com/papercomputeco/reins/pkg/storage"
	"github.com/papercomputeco/reins/pkg/storage/sqlite"
	"github.com/papercomputeco/reins/pkg/trace"
)

func record(reqID, intentID, file string, class mutation.Class) *trace.Record {
	hash := fingerprint.HashString(file + reqID)
	return &trace.Record{
		ReqID:         reqID,
		IntentID:      intentID,
		File:          file,
		Timestamp:     trace.FormatTimestamp(time.Unix(1735689600, 0)),
		MutationClass: class,
		ContentHash:   hash,
		Related:       []string{reqID},
		Ranges:        trace.Ranges{ContentHash: hash},
		VCS:           &trace.VCS{Revision: "abc123", Branch: "main"},
	}
}

var _ = Describe("Driver", func() {
	var (
		driver *sqlite.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		driver, err = sqlite.NewDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		driver.Close()
	})

	It("inserts and deduplicates records", func() {
		fresh, err := driver.Put(ctx, record("t-1", "INT-1", "src/a.ts", mutation.Evolution))
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh).To(BeTrue())

		again, err := driver.Put(ctx, record("t-1", "INT-1", "src/a.ts", mutation.Evolution))
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeFalse())

		stats, err := driver.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Total).To(Equal(1))
	})

	It("round-trips every record field", func() {
		original := record("t-1", "INT-1", "src/a.ts", mutation.Refactor)
		_, err := driver.Put(ctx, original)
		Expect(err).NotTo(HaveOccurred())

		out, err := driver.Query(ctx, trace.Query{})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0]).To(Equal(*original))
		Expect(out[0].Ranges.ContentHash).To(Equal(out[0].ContentHash))
	})

	It("filters and paginates", func() {
		Expect(driver.Put(ctx, record("t-1", "INT-1", "src/a.ts", mutation.Evolution))).Error().NotTo(HaveOccurred())
		Expect(driver.Put(ctx, record("t-2", "INT-1", "src/b.ts", mutation.Refactor))).Error().NotTo(HaveOccurred())
		Expect(driver.Put(ctx, record("t-3", "INT-2", "src/a.ts", mutation.Evolution))).Error().NotTo(HaveOccurred())

		byIntent, err := driver.Query(ctx, trace.Query{IntentID: "INT-1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(byIntent).To(HaveLen(2))

		byClass, err := driver.Query(ctx, trace.Query{MutationClass: string(mutation.Refactor)})
		Expect(err).NotTo(HaveOccurred())
		Expect(byClass).To(HaveLen(1))
		Expect(byClass[0].ReqID).To(Equal("t-2"))

		limited, err := driver.Query(ctx, trace.Query{Limit: 1, Offset: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(limited).To(HaveLen(1))
	})

	It("aggregates stats by class and intent", func() {
		Expect(driver.Put(ctx, record("t-1", "INT-1", "src/a.ts", mutation.Evolution))).Error().NotTo(HaveOccurred())
		Expect(driver.Put(ctx, record("t-2", "INT-1", "src/b.ts", mutation.Refactor))).Error().NotTo(HaveOccurred())
		Expect(driver.Put(ctx, record("t-3", "INT-2", "src/c.ts", mutation.Evolution))).Error().NotTo(HaveOccurred())

		stats, err := driver.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Total).To(Equal(3))
		Expect(stats.ByClass[string(mutation.Evolution)]).To(Equal(2))
		Expect(stats.ByClass[string(mutation.Refactor)]).To(Equal(1))
		Expect(stats.ByIntent["INT-1"]).To(Equal(2))
	})

	It("rebuilds idempotently from a workspace ledger", func() {
		tmpDir, err := os.MkdirTemp("", "rebuild-test-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)

		w := trace.NewWriter(tmpDir)
		Expect(w.Append(record("t-1", "INT-1", "src/a.ts", mutation.Evolution))).To(Succeed())
		Expect(w.Append(record("t-2", "INT-1", "src/b.ts", mutation.Refactor))).To(Succeed())

		inserted, err := storage.Rebuild(ctx, driver, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(Equal(2))

		inserted, err = storage.Rebuild(ctx, driver, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeZero())
	})
})
