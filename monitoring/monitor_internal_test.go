package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"github.com/sarchlab/throng/driver"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		d      *driver.Driver
		agent  *driver.BasicAgent
		router *mux.Router
	)

	BeforeEach(func() {
		d = driver.NewDriver()
		agent = driver.NewBasicAgent("Trader1", 10)
		d.Register(agent)

		m = NewMonitor()
		m.RegisterDriver(d)

		router = mux.NewRouter()
		router.HandleFunc("/api/now", m.now)
		router.HandleFunc("/api/actors", m.listActors)
		router.HandleFunc("/api/actor/{name}", m.actorDetails)
	})

	It("should report the current time", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/now", nil))

		Expect(w.Code).To(Equal(200))
		Expect(w.Body.String()).To(Equal(`{"now":0.0000000000}`))
	})

	It("should list registered actors", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/actors", nil))

		Expect(w.Body.String()).To(Equal(`["Trader1"]`))
	})

	It("should report an actor without a pending event", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w,
			httptest.NewRequest("GET", "/api/actor/Trader1", nil))

		rsp := actorRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Name).To(Equal("Trader1"))
		Expect(rsp.Pending).To(BeNil())
		Expect(rsp.NextWakeTime).To(Equal(10.0))
	})

	It("should report the pending event of an actor", func() {
		timeline := agent.Timeline()
		timeline.SetNextEvent(timeline.Propose("Trade", 200, 50, nil, nil))

		w := httptest.NewRecorder()
		router.ServeHTTP(w,
			httptest.NewRequest("GET", "/api/actor/Trader1", nil))

		rsp := actorRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Pending).NotTo(BeNil())
		Expect(rsp.Pending.Label).To(Equal("Trade"))
		Expect(rsp.Pending.Priority).To(Equal(200))
		Expect(rsp.Pending.End).To(Equal(50.0))
	})

	It("should 404 on an unknown actor", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w,
			httptest.NewRequest("GET", "/api/actor/Nobody", nil))

		Expect(w.Code).To(Equal(404))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("caravans arrived", 100)
		bar.IncrementInProgress(4)
		bar.MoveInProgressToFinished(3)

		Expect(bar.InProgress).To(Equal(uint64(1)))
		Expect(bar.Finished).To(Equal(uint64(3)))

		m.CompleteProgressBar(bar)
		Expect(m.progressBars).To(BeEmpty())
	})
})
