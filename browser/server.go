// Package browser serves the trace viewer: a static timeline UI plus a JSON
// API over a loaded trace.
package browser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	openbrowser "github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/tracelab/tracebrowser/browser/web"
)

// A Server turns a loaded trace into a browsable web page.
type Server struct {
	store         *Store
	portNumber    int
	launchBrowser bool
}

// NewServer creates a Server over a store.
func NewServer(store *Store) *Server {
	return &Server{store: store}
}

// WithPortNumber sets the port number of the server.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the trace browser, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// WithBrowserLaunch controls whether the default browser is opened once the
// server is listening.
func (s *Server) WithBrowserLaunch(enable bool) *Server {
	s.launchBrowser = enable
	return s
}

// Run starts serving and blocks until the listener fails.
func (s *Server) Run() error {
	actualPort := ":0"
	if s.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Browsing trace at %s\n", url)

	if s.launchBrowser {
		go func() {
			err := openbrowser.OpenURL(url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
			}
		}()
	}

	return http.Serve(listener, s.Handler())
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/trace", s.httpTrace)
	r.HandleFunc("/api/threads", s.httpThreads)
	r.HandleFunc("/api/summary", s.httpSummary)
	r.HandleFunc("/api/resource", s.httpResource)
	r.HandleFunc("/api/profile", s.httpProfile)
	r.HandleFunc("/api/store", s.httpStore)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

func (s *Server) httpTrace(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, s.store.Records(query))
}

// parseQuery maps the request's form values onto a Query. A time range is
// only applied when both ends are present.
func parseQuery(r *http.Request) (Query, error) {
	query := Query{
		Thread: r.FormValue("thread"),
		Event:  r.FormValue("event"),
	}

	startStr := r.FormValue("starttime")
	endStr := r.FormValue("endtime")

	var start, end float64
	var err error

	if startStr != "" {
		start, err = strconv.ParseFloat(startStr, 64)
		if err != nil {
			return Query{}, fmt.Errorf("invalid starttime: %s", startStr)
		}
	}

	if endStr != "" {
		end, err = strconv.ParseFloat(endStr, 64)
		if err != nil {
			return Query{}, fmt.Errorf("invalid endtime: %s", endStr)
		}
	}

	if startStr != "" && endStr != "" {
		query.EnableTimeRange = true
		query.StartTime = start
		query.EndTime = end
	}

	query.Limit, err = formInt(r, "limit")
	if err != nil {
		return Query{}, err
	}

	query.Offset, err = formInt(r, "offset")
	if err != nil {
		return Query{}, err
	}

	return query, nil
}

func formInt(r *http.Request, name string) (int, error) {
	str := r.FormValue(name)
	if str == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, str)
	}

	return value, nil
}

func (s *Server) httpThreads(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.store.Threads())
}

func (s *Server) httpSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.store.Summary())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) httpResource(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (s *Server) httpProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (s *Server) httpStore(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.store)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func writeJSON(w http.ResponseWriter, v any) {
	rsp, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(rsp)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
