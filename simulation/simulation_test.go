package simulation_test

import (
	"bytes"

	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/behavior"
	"github.com/sarchlab/throng/datarecording"
	"github.com/sarchlab/throng/driver"
	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/simulation"
	"github.com/sarchlab/throng/timing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// ledger records what the haul actions did, so tests can tell whether a
// resumed run re-fired anything.
type ledger struct {
	loadCount    int
	deliverTimes []timing.VTimePoint
}

const haulActionKind = "haul"

// activeLedger is the ledger restored haul actions bind to.
var activeLedger *ledger

type haulAction struct {
	led   *ledger
	stage string
}

func (a haulAction) Kind() string {
	return haulActionKind
}

func (a haulAction) Payload() map[string]any {
	return map[string]any{"stage": a.stage}
}

func (a haulAction) Run(now timing.VTimePoint) error {
	switch a.stage {
	case "load":
		a.led.loadCount++
	case "deliver":
		a.led.deliverTimes = append(a.led.deliverTimes, now)
	}

	return nil
}

func init() {
	err := actor.RegisterActionKind(haulActionKind,
		func(payload map[string]any) (actor.Action, error) {
			stage, _ := payload["stage"].(string)
			return haulAction{led: activeLedger, stage: stage}, nil
		})
	if err != nil {
		panic(err)
	}
}

// haulModule keeps the agent hauling goods in fixed 10-unit legs.
type haulModule struct {
	naming.NamedBase

	led *ledger
}

func newHaulModule(led *ledger) *haulModule {
	return &haulModule{
		NamedBase: naming.MakeNamedBase("haul"),
		led:       led,
	}
}

func (m *haulModule) Priority() int {
	return 200
}

func (m *haulModule) Propose(
	now timing.VTimePoint,
	_ behavior.WorldView,
) *actor.ScheduledEvent {
	return actor.NewCandidate(now, "Haul", 200, 10,
		haulAction{led: m.led, stage: "load"},
		haulAction{led: m.led, stage: "deliver"})
}

func buildSim(led *ledger) *simulation.Simulation {
	s := simulation.MakeBuilder().
		WithoutMonitoring().
		WithOutputFileName(GinkgoT().TempDir() + "/trace").
		Build()

	agent := driver.NewBasicAgent("Trader1", 10)
	agent.Registry().Add(newHaulModule(led))
	s.RegisterAgent(agent)

	return s
}

var _ = Describe("Simulation", func() {
	It("should refuse duplicate agent names", func() {
		s := simulation.MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(GinkgoT().TempDir() + "/trace").
			Build()
		defer s.Terminate()

		s.RegisterAgent(driver.NewBasicAgent("Trader1", 10))

		Expect(func() {
			s.RegisterAgent(driver.NewBasicAgent("Trader1", 10))
		}).To(Panic())

		Expect(s.GetAgentByName("Trader1")).NotTo(BeNil())
		Expect(s.GetAgentByName("Nobody")).To(BeNil())
	})

	It("should reject a monitor port without monitoring", func() {
		Expect(func() {
			simulation.MakeBuilder().
				WithoutMonitoring().
				WithMonitorPort(8080).
				Build()
		}).To(Panic())
	})

	It("should run a population and record a trace", func() {
		led := &ledger{}
		s := buildSim(led)
		defer s.Terminate()

		Expect(s.RunUntil(25)).To(Succeed())

		Expect(led.deliverTimes).To(Equal([]timing.VTimePoint{10, 20}))
		Expect(led.loadCount).To(Equal(3))
		Expect(s.DataRecorder().ListTables()).
			To(ContainElement(datarecording.TraceTableName))
	})

	It("should resume from a checkpoint without re-firing actions", func() {
		led1 := &ledger{}
		s1 := buildSim(led1)
		defer s1.Terminate()

		Expect(s1.RunUntil(25)).To(Succeed())
		Expect(led1.loadCount).To(Equal(3))

		checkpoint := &bytes.Buffer{}
		Expect(s1.SaveCheckpoint(checkpoint)).To(Succeed())

		led2 := &ledger{}
		s2 := buildSim(led2)
		defer s2.Terminate()

		activeLedger = led2
		Expect(s2.LoadCheckpoint(checkpoint)).To(Succeed())

		trader := s2.GetAgentByName("Trader1")
		Expect(s2.Driver().CurrentTime()).To(Equal(timing.VTimePoint(25)))
		Expect(trader.Timeline().Now()).To(Equal(timing.VTimePoint(25)))
		Expect(trader.Timeline().Pending()).NotTo(BeNil())
		Expect(trader.Timeline().Pending().Label()).To(Equal("Haul"))

		Expect(s2.RunUntil(40)).To(Succeed())

		// The leg that was in flight at the checkpoint completes at 30
		// without loading again; only the follow-up leg loads.
		Expect(led2.deliverTimes).To(Equal([]timing.VTimePoint{30, 40}))
		Expect(led2.loadCount).To(Equal(1))
	})

	It("should reject a checkpoint naming an unknown agent", func() {
		led := &ledger{}
		s1 := buildSim(led)
		defer s1.Terminate()

		Expect(s1.RunUntil(5)).To(Succeed())

		checkpoint := &bytes.Buffer{}
		Expect(s1.SaveCheckpoint(checkpoint)).To(Succeed())

		s2 := simulation.MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(GinkgoT().TempDir() + "/trace").
			Build()
		defer s2.Terminate()

		Expect(s2.LoadCheckpoint(checkpoint)).
			To(MatchError(ContainSubstring("unknown agent")))
	})
})
