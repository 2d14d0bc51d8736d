package actor

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/throng/serialization"
	"github.com/sarchlab/throng/timing"
)

var markLog []string

// markAction is a payload action that appends its note to a shared log.
type markAction struct {
	Note string
}

func (a *markAction) Kind() string {
	return "mark"
}

func (a *markAction) Run(_ timing.VTimePoint) error {
	markLog = append(markLog, a.Note)
	return nil
}

func (a *markAction) Payload() map[string]any {
	return map[string]any{"note": a.Note}
}

func init() {
	err := RegisterActionKind("mark",
		func(payload map[string]any) (Action, error) {
			note, err := serialization.AsString(payload["note"])
			if err != nil {
				return nil, err
			}

			return &markAction{Note: note}, nil
		})
	if err != nil {
		panic(err)
	}
}

func roundTrip(t *Timeline) *Timeline {
	data, err := t.Serialize()
	Expect(err).NotTo(HaveOccurred())

	var buf bytes.Buffer
	codec := serialization.JSONCodec{}
	Expect(codec.Encode(&buf, data)).To(Succeed())

	decoded, err := codec.Decode(&buf)
	Expect(err).NotTo(HaveOccurred())

	instance, err := serialization.CreateInstance(
		serialization.TypeNameOf(&Timeline{}))
	Expect(err).NotTo(HaveOccurred())

	restored := instance.(*Timeline)
	Expect(restored.Deserialize(decoded)).To(Succeed())

	return restored
}

var _ = Describe("Timeline persistence", func() {
	BeforeEach(func() {
		markLog = nil
	})

	It("should restore an idle timeline exactly", func() {
		timeline := NewTimeline("Actor1", 25)
		Expect(timeline.SimulateTo(12)).To(Succeed())

		restored := roundTrip(timeline)

		Expect(restored.Name()).To(Equal("Actor1"))
		Expect(restored.Now()).To(BeEquivalentTo(12))
		Expect(restored.LastTime()).To(BeEquivalentTo(12))
		Expect(restored.MaxIdleDelay()).To(BeEquivalentTo(25))
		Expect(restored.Pending()).To(BeNil())
		Expect(restored.NextWakeTime()).To(BeEquivalentTo(37))
	})

	It("should resume mid-action without re-firing the pre-action", func() {
		timeline := NewTimeline("Actor1", 10)
		evt := timeline.Propose("Haul", 300, 30,
			&markAction{Note: "pre"}, &markAction{Note: "post"})
		timeline.SetNextEvent(evt)

		// The action begins before the checkpoint.
		Expect(timeline.SimulateTo(10)).To(Succeed())
		Expect(markLog).To(Equal([]string{"pre"}))

		restored := roundTrip(timeline)

		pending := restored.Pending()
		Expect(pending).NotTo(BeNil())
		Expect(pending.Label()).To(Equal("Haul"))
		Expect(pending.Priority()).To(Equal(300))
		Expect(pending.Start()).To(BeEquivalentTo(0))
		Expect(pending.End()).To(BeEquivalentTo(30))
		Expect(pending.Invoked()).To(BeTrue())
		Expect(pending.Generation()).To(Equal(evt.Generation()))

		// Advancing past the end fires only the post-action obligation.
		Expect(restored.SimulateTo(30)).To(Succeed())
		Expect(markLog).To(Equal([]string{"pre", "post"}))
		Expect(restored.Pending()).To(BeNil())
	})

	It("should keep generation identity across the round trip", func() {
		timeline := NewTimeline("Actor1", 10)
		evt := timeline.Propose("Haul", 300, 30, nil, nil)
		timeline.SetNextEvent(evt)

		restored := roundTrip(timeline)

		Expect(restored.Pending().Same(evt)).To(BeTrue())
		Expect(restored.SetNextEvent(restored.Pending())).To(BeTrue())
	})

	It("should continue the generation counter after restore", func() {
		timeline := NewTimeline("Actor1", 10)
		first := timeline.Propose("A", 1, 5, nil, nil)
		timeline.SetNextEvent(first)
		Expect(timeline.SimulateTo(5)).To(Succeed())

		restored := roundTrip(timeline)

		second := restored.Propose("B", 1, 5, nil, nil)
		restored.SetNextEvent(second)

		Expect(second.Generation()).To(Equal(first.Generation() + 1))
	})

	It("should refuse to serialize closure-backed actions", func() {
		timeline := NewTimeline("Actor1", 10)
		evt := timeline.Propose("Haul", 300, 30,
			FuncAction(func(timing.VTimePoint) error { return nil }), nil)
		timeline.SetNextEvent(evt)

		_, err := timeline.Serialize()

		Expect(err).To(HaveOccurred())
	})

	It("should refuse to restore an unknown action kind", func() {
		timeline := &Timeline{}
		err := timeline.Deserialize(map[string]any{
			"name":           "Actor1",
			"now":            1.0,
			"last":           1.0,
			"maxIdleDelay":   10.0,
			"nextGeneration": 1.0,
			"everScheduled":  true,
			"pending": map[string]any{
				"id":         "x",
				"generation": 1.0,
				"label":      "Haul",
				"priority":   300.0,
				"start":      0.0,
				"end":        30.0,
				"invoked":    false,
				"preAction": map[string]any{
					"kind":    "no-such-kind",
					"payload": map[string]any{},
				},
				"postAction": nil,
			},
		})

		Expect(err).To(HaveOccurred())
	})
})
