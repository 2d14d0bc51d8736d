package actor

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ScheduledEvent", func() {
	It("should build a candidate anchored at now", func() {
		evt := NewCandidate(5, "Attack", 400, 30, nil, nil)

		Expect(evt.Label()).To(Equal("Attack"))
		Expect(evt.Priority()).To(Equal(400))
		Expect(evt.Start()).To(BeEquivalentTo(5))
		Expect(evt.End()).To(BeEquivalentTo(35))
		Expect(evt.Invoked()).To(BeFalse())
		Expect(evt.Generation()).To(BeZero())
	})

	It("should allow a zero duration", func() {
		evt := NewCandidate(5, "Ping", 100, 0, nil, nil)

		Expect(evt.Start()).To(Equal(evt.End()))
	})

	It("should panic on a negative duration", func() {
		Expect(func() {
			NewCandidate(5, "Broken", 100, -1, nil, nil)
		}).To(Panic())
	})

	It("should not consider uncommitted candidates the same", func() {
		a := NewCandidate(0, "A", 1, 1, nil, nil)
		b := NewCandidate(0, "A", 1, 1, nil, nil)

		Expect(a.Same(b)).To(BeFalse())
		Expect(a.Same(a)).To(BeFalse())
		Expect(a.Same(nil)).To(BeFalse())
	})
})
