package tool_test

import (
	"time"

	"github.com/frahmantamala/asset-tracking/internal/tool"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeStatus", func() {
	str := func(s string) *string { return &s }
	date := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	It("is Unknown without a calibration date", func() {
		status, expiry := tool.ComputeStatus(nil, 12, time.Now())
		Expect(status).To(Equal(tool.StatusUnknown))
		Expect(expiry).To(BeNil())

		status, expiry = tool.ComputeStatus(str(""), 12, time.Now())
		Expect(status).To(Equal(tool.StatusUnknown))
		Expect(expiry).To(BeNil())
	})

	It("is Unknown when the date cannot be parsed", func() {
		status, expiry := tool.ComputeStatus(str("15/01/2024"), 12, time.Now())
		Expect(status).To(Equal(tool.StatusUnknown))
		Expect(expiry).To(BeNil())
	})

	It("counts a month as 30 days", func() {
		status, expiry := tool.ComputeStatus(str("2024-01-15"), 12, date("2024-06-01T00:00:00Z"))
		Expect(status).To(Equal(tool.StatusValid))
		Expect(*expiry).To(Equal("2025-01-09"))
	})

	DescribeTable("thresholds around the expiry date",
		func(now string, expected string) {
			status, expiry := tool.ComputeStatus(str("2024-01-01"), 1, date(now))
			Expect(*expiry).To(Equal("2024-01-31"))
			Expect(status).To(Equal(expected))
		},
		Entry("91 days before", "2023-11-01T00:00:00Z", tool.StatusValid),
		Entry("exactly 90 days before", "2023-11-02T00:00:00Z", tool.StatusExpiringSoon),
		Entry("89.5 days before", "2023-11-02T12:00:00Z", tool.StatusExpiringSoon),
		Entry("on the expiry instant", "2024-01-31T00:00:00Z", tool.StatusExpiringSoon),
		Entry("one second after expiry", "2024-01-31T00:00:01Z", tool.StatusExpired),
		Entry("a year after expiry", "2025-01-31T00:00:00Z", tool.StatusExpired),
	)

	DescribeTable("accepted date formats",
		func(input string, expectedExpiry string) {
			status, expiry := tool.ComputeStatus(str(input), 12, date("2024-02-01T00:00:00Z"))
			Expect(status).To(Equal(tool.StatusValid))
			Expect(expiry).NotTo(BeNil())
			Expect(*expiry).To(Equal(expectedExpiry))
		},
		Entry("bare date", "2024-01-15", "2025-01-09"),
		Entry("UTC timestamp", "2024-01-15T10:30:00Z", "2025-01-09"),
		Entry("timestamp with fraction", "2024-01-15T10:30:00.123456Z", "2025-01-09"),
		Entry("timestamp with offset", "2024-01-15T23:30:00+07:00", "2025-01-09"),
		Entry("timestamp without zone", "2024-01-15T10:30:00", "2025-01-09"),
		Entry("space separated", "2024-01-15 10:30:00", "2025-01-09"),
	)

	It("treats zero validity as expiring on the calibration day", func() {
		status, expiry := tool.ComputeStatus(str("2024-01-15"), 0, date("2024-01-16T00:00:00Z"))
		Expect(status).To(Equal(tool.StatusExpired))
		Expect(*expiry).To(Equal("2024-01-15"))
	})

	It("is a pure function of its inputs", func() {
		now := date("2024-06-01T00:00:00Z")
		a, ea := tool.ComputeStatus(str("2024-01-15"), 6, now)
		b, eb := tool.ComputeStatus(str("2024-01-15"), 6, now)
		Expect(a).To(Equal(b))
		Expect(*ea).To(Equal(*eb))
	})
})
