package monitoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/incsim/firmware"
	"github.com/sarchlab/incsim/sim"
)

type plainComp struct {
	*sim.ComponentBase
	Value int
}

func (c *plainComp) Handle(_ sim.Event) error {
	return nil
}

type reportingComp struct {
	*sim.ComponentBase
	stateCalls atomic.Int32
}

func (c *reportingComp) Handle(_ sim.Event) error {
	return nil
}

func (c *reportingComp) State() any {
	c.stateCalls.Add(1)

	return &struct{ Value int }{Value: 42}
}

var _ = Describe("Monitor", func() {
	var (
		engine  *sim.SerialEngine
		core    *firmware.Core
		plain   *plainComp
		monitor *Monitor
		server  *httptest.Server
	)

	get := func(path string) (int, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())

		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())

		return rsp.StatusCode, body
	}

	BeforeEach(func() {
		logger := logrus.New()
		logger.SetOutput(io.Discard)

		engine = sim.NewSerialEngine()
		core = firmware.MakeBuilder().
			WithEngine(engine).
			WithIterationBudget(10).
			Build("Core")
		plain = &plainComp{ComponentBase: sim.NewComponentBase("Plain")}

		monitor = NewMonitor().
			WithLogger(logrus.NewEntry(logger)).
			WithProfileDuration(10 * time.Millisecond)
		monitor.RegisterEngine(engine)
		monitor.RegisterComponent(core)
		monitor.RegisterComponent(plain)

		server = httptest.NewServer(monitor.Router())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should list components", func() {
		status, body := get("/api/list_components")

		Expect(status).To(Equal(http.StatusOK))

		var names []string
		Expect(json.Unmarshal(body, &names)).To(Succeed())
		Expect(names).To(Equal([]string{"Core", "Plain"}))
	})

	It("should report the current time", func() {
		core.Start()
		Expect(engine.Run()).To(Succeed())

		status, body := get("/api/now")

		Expect(status).To(Equal(http.StatusOK))

		var rsp map[string]float64
		Expect(json.Unmarshal(body, &rsp)).To(Succeed())
		Expect(rsp["now"]).To(BeNumerically("~", 9e-9, 1e-12))
	})

	It("should pause and continue the engine", func() {
		status, _ := get("/api/pause")
		Expect(status).To(Equal(http.StatusOK))
		Expect(engine.IsPaused()).To(BeTrue())

		status, _ = get("/api/continue")
		Expect(status).To(Equal(http.StatusOK))
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should return 404 for unknown components", func() {
		status, _ := get("/api/component/Nothing")
		Expect(status).To(Equal(http.StatusNotFound))

		status, _ = get("/api/halt/Nothing")
		Expect(status).To(Equal(http.StatusNotFound))
	})

	It("should serialize a component", func() {
		status, body := get("/api/component/Plain")

		Expect(status).To(Equal(http.StatusOK))
		Expect(body).NotTo(BeEmpty())
	})

	It("should serialize the reported state of a component", func() {
		comp := &reportingComp{ComponentBase: sim.NewComponentBase("Reporting")}
		monitor.RegisterComponent(comp)

		status, _ := get("/api/component/Reporting")

		Expect(status).To(Equal(http.StatusOK))
		Expect(comp.stateCalls.Load()).To(Equal(int32(1)))
	})

	It("should serialize a core while it runs", func() {
		busy := firmware.MakeBuilder().WithEngine(engine).Build("Busy")
		monitor.RegisterComponent(busy)

		busy.Start()
		done := make(chan error)
		go func() { done <- engine.Run() }()

		for i := 0; i < 20; i++ {
			status, _ := get("/api/component/Busy")
			Expect(status).To(Equal(http.StatusOK))
		}

		busy.Halt()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should reject a malformed field request", func() {
		status, _ := get("/api/field/" + url.PathEscape("{not json"))

		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("should halt a core", func() {
		status, _ := get("/api/halt/Core")

		Expect(status).To(Equal(http.StatusOK))
		Expect(core.Halted()).To(BeTrue())

		core.Start()
		Expect(engine.Run()).To(Succeed())
		Expect(core.Retired()).To(Equal(uint64(0)))
	})

	It("should not halt a component that cannot halt", func() {
		status, _ := get("/api/halt/Plain")

		Expect(status).To(Equal(http.StatusMethodNotAllowed))
	})

	It("should tick a ticking component", func() {
		status, _ := get("/api/tick/Core")
		Expect(status).To(Equal(http.StatusOK))

		Expect(engine.Run()).To(Succeed())
		Expect(core.Retired()).To(Equal(uint64(10)))
	})

	It("should track progress bars", func() {
		bar := monitor.CreateProgressBar("Iterations", 100)
		bar.IncrementInProgress(10)
		bar.MoveInProgressToFinished(4)

		status, body := get("/api/progress")
		Expect(status).To(Equal(http.StatusOK))

		var bars []progressBarStatus
		Expect(json.Unmarshal(body, &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Iterations"))
		Expect(bars[0].Total).To(Equal(uint64(100)))
		Expect(bars[0].Finished).To(Equal(uint64(4)))
		Expect(bars[0].InProgress).To(Equal(uint64(6)))

		monitor.CompleteProgressBar(bar)

		_, body = get("/api/progress")
		Expect(json.Unmarshal(body, &bars)).To(Succeed())
		Expect(bars).To(BeEmpty())
	})

	It("should report resource usage", func() {
		status, body := get("/api/resource")
		Expect(status).To(Equal(http.StatusOK))

		var rsp resourceRsp
		Expect(json.Unmarshal(body, &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a cpu profile", func() {
		status, _ := get("/api/profile")

		Expect(status).To(Equal(http.StatusOK))
	})

	It("should serve on a random port", func() {
		port, err := monitor.StartServer()
		Expect(err).NotTo(HaveOccurred())
		Expect(port).To(BeNumerically(">", 0))

		rsp, err := http.Get(URL(port) + "/api/list_components")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		Expect(monitor.Shutdown(context.Background())).To(Succeed())
	})
})

var _ = Describe("Monitor port", func() {
	It("should fall back to a random port for reserved ports", func() {
		logger := logrus.New()
		logger.SetOutput(io.Discard)

		m := NewMonitor().WithLogger(logrus.NewEntry(logger)).WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should keep an allowed port", func() {
		m := NewMonitor().WithPortNumber(32776)

		Expect(m.portNumber).To(Equal(32776))
	})
})
