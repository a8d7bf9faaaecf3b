package inmemory_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/fingerprint"
	"github.com/papercomputeco/reins/pkg/mutation"
	"github.com/papercomputeco/reins/pkg/storage/inmemory"
	"github.com/papercomputeco/reins/pkg/trace"
)

func record(reqID, intentID, file string) *trace.Record {
	hash := fingerprint.HashString(file + reqID)
	return &trace.Record{
		ReqID:         reqID,
		IntentID:      intentID,
		File:          file,
		Timestamp:     trace.FormatTimestamp(time.Unix(1735689600, 0)),
		MutationClass: mutation.Evolution,
		ContentHash:   hash,
		Related:       []string{reqID},
		Ranges:        trace.Ranges{ContentHash: hash},
	}
}

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
	})

	It("deduplicates identical records", func() {
		fresh, err := driver.Put(ctx, record("t-1", "INT-1", "src/a.ts"))
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh).To(BeTrue())

		again, err := driver.Put(ctx, record("t-1", "INT-1", "src/a.ts"))
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeFalse())
	})

	It("filters queries by intent and file", func() {
		Expect(driver.Put(ctx, record("t-1", "INT-1", "src/a.ts"))).Error().NotTo(HaveOccurred())
		Expect(driver.Put(ctx, record("t-2", "INT-2", "src/b.ts"))).Error().NotTo(HaveOccurred())

		got, err := driver.Query(ctx, trace.Query{IntentID: "INT-2"})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(1))
		Expect(got[0].File).To(Equal("src/b.ts"))
	})

	It("computes stats", func() {
		Expect(driver.Put(ctx, record("t-1", "INT-1", "src/a.ts"))).Error().NotTo(HaveOccurred())
		Expect(driver.Put(ctx, record("t-2", "INT-1", "src/b.ts"))).Error().NotTo(HaveOccurred())

		stats, err := driver.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Total).To(Equal(2))
		Expect(stats.ByIntent["INT-1"]).To(Equal(2))
	})
})
