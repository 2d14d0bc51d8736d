package behavior

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/timing"
)

// orderAwareModule counts reshuffle notifications.
type orderAwareModule struct {
	naming.NamedBase
	priority  int
	reordered int
	proposeFn func(now timing.VTimePoint, view WorldView) *actor.ScheduledEvent
}

func newOrderAwareModule(name string, priority int) *orderAwareModule {
	return &orderAwareModule{
		NamedBase: naming.MakeNamedBase(name),
		priority:  priority,
	}
}

func (m *orderAwareModule) Priority() int {
	return m.priority
}

func (m *orderAwareModule) Propose(
	now timing.VTimePoint,
	view WorldView,
) *actor.ScheduledEvent {
	if m.proposeFn == nil {
		return nil
	}

	return m.proposeFn(now, view)
}

func (m *orderAwareModule) NotifyReordered() {
	m.reordered++
}

var _ = Describe("Registry", func() {
	var registry *Registry

	BeforeEach(func() {
		registry = NewRegistry()
	})

	It("should order modules descending by priority", func() {
		registry.Add(newOrderAwareModule("idle", 50))
		registry.Add(newOrderAwareModule("flee", 900))
		registry.Add(newOrderAwareModule("trade", 200))

		modules := registry.Modules()

		Expect(modules).To(HaveLen(3))
		Expect(modules[0].Name()).To(Equal("flee"))
		Expect(modules[1].Name()).To(Equal("trade"))
		Expect(modules[2].Name()).To(Equal("idle"))
	})

	It("should keep insertion order among equal priorities", func() {
		registry.Add(newOrderAwareModule("first", 400))
		registry.Add(newOrderAwareModule("second", 400))

		modules := registry.Modules()

		Expect(modules[0].Name()).To(Equal("first"))
		Expect(modules[1].Name()).To(Equal("second"))
	})

	It("should resort lazily, only after the set changed", func() {
		flee := newOrderAwareModule("flee", 900)
		registry.Add(flee)
		registry.Add(newOrderAwareModule("trade", 200))

		registry.Modules()
		registry.Modules()
		registry.Modules()

		Expect(flee.reordered).To(Equal(1))

		registry.Add(newOrderAwareModule("combat", 500))
		registry.Modules()

		Expect(flee.reordered).To(Equal(2))
	})

	It("should notify on removal-triggered reshuffles", func() {
		flee := newOrderAwareModule("flee", 900)
		registry.Add(flee)
		registry.Add(newOrderAwareModule("trade", 200))
		registry.Modules()

		Expect(registry.Remove("trade")).To(BeTrue())
		Expect(registry.Len()).To(Equal(1))

		registry.Modules()
		Expect(flee.reordered).To(Equal(2))
	})

	It("should report removal of an unknown module", func() {
		Expect(registry.Remove("ghost")).To(BeFalse())
	})

	It("should reject duplicated module names", func() {
		registry.Add(newOrderAwareModule("flee", 900))

		Expect(func() {
			registry.Add(newOrderAwareModule("flee", 100))
		}).To(Panic())
	})
})
