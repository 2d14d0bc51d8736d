// Package monitoring turns a running simulation into a small web server so
// that the population can be inspected and controlled from outside the
// process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/throng/driver"
	"github.com/sarchlab/throng/id"
)

// Monitor serves the state of a driver and its agents over HTTP. It can also
// pause and continue the dispatch loop.
type Monitor struct {
	driver     *driver.Driver
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterDriver registers the driver that advances the simulation.
func (m *Monitor) RegisterDriver(d *driver.Driver) {
	m.driver = d
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:    id.Generate(),
		Name:  name,
		Total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseDriver)
	r.HandleFunc("/api/continue", m.continueDriver)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/actors", m.listActors)
	r.HandleFunc("/api/actor/{name}", m.actorDetails)
	r.HandleFunc("/api/actor/{name}/state", m.actorState)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(
		os.Stderr,
		"Monitoring simulation with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseDriver(w http.ResponseWriter, _ *http.Request) {
	m.driver.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueDriver(w http.ResponseWriter, _ *http.Request) {
	m.driver.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.driver.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", float64(now))
}

func (m *Monitor) listActors(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, a := range m.driver.Agents() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", a.Name())
	}
	fmt.Fprint(w, "]")
}

type pendingEventRsp struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Priority int     `json:"priority"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
}

type actorRsp struct {
	Name         string           `json:"name"`
	Now          float64          `json:"now"`
	NextWakeTime float64          `json:"next_wake_time"`
	Pending      *pendingEventRsp `json:"pending"`
}

func (m *Monitor) actorDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	agent := m.findAgentOr404(w, name)
	if agent == nil {
		return
	}

	timeline := agent.Timeline()
	rsp := actorRsp{
		Name:         agent.Name(),
		Now:          float64(timeline.Now()),
		NextWakeTime: float64(timeline.NextWakeTime()),
	}

	if pending := timeline.Pending(); pending != nil {
		rsp.Pending = &pendingEventRsp{
			ID:       pending.ID(),
			Label:    pending.Label(),
			Priority: pending.Priority(),
			Start:    float64(pending.Start()),
			End:      float64(pending.End()),
		}
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) actorState(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	agent := m.findAgentOr404(w, name)
	if agent == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(agent)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findAgentOr404(
	w http.ResponseWriter,
	name string,
) driver.Agent {
	var agent driver.Agent
	for _, a := range m.driver.Agents() {
		if a.Name() == name {
			agent = a
		}
	}

	if agent == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Actor not found"))
		dieOnErr(err)
	}

	return agent
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
