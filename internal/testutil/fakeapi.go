package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is one request received by a FakeAPI.
type RecordedRequest struct {
	Method string
	Query  url.Values
	Form   url.Values
	Header http.Header
}

// FakeAPI is an in-process stand-in for the NationStates API. Fields may be
// set before the first request; the maps are keyed by region or nation handle.
type FakeAPI struct {
	// Delegates maps a region to its DELEGATE value. Regions absent from the
	// map answer 404.
	Delegates map[string]string
	// WANations maps a region to its World Assembly members.
	WANations map[string][]string
	// Endorsements maps a nation to the nations endorsing it.
	Endorsements map[string][]string
	// OmitFields lists element names to leave out of responses.
	OmitFields map[string]bool

	// Password is the X-Password accepted for dispatch commands.
	Password string
	// Pin and Token are returned by the prepare phase.
	Pin   string
	Token string
	// OmitPin and OmitToken drop the pin header or SUCCESS element from
	// prepare responses.
	OmitPin   bool
	OmitToken bool
	// PrepareStatus overrides the prepare response status when non-zero.
	PrepareStatus int

	server   *httptest.Server
	mu       sync.Mutex
	requests []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		Delegates:    map[string]string{},
		WANations:    map[string][]string{},
		Endorsements: map[string][]string{},
		OmitFields:   map[string]bool{},
		Password:     "hunter2",
		Pin:          "1234567890",
		Token:        "tok-abc-123",
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the endpoint to hand to an API client.
func (f *FakeAPI) URL() string {
	return f.server.URL + "/cgi-bin/api.cgi"
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Posts returns only the POST (write) requests.
func (f *FakeAPI) Posts() []RecordedRequest {
	var posts []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == http.MethodPost {
			posts = append(posts, r)
		}
	}
	return posts
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Query:  r.URL.Query(),
		Form:   r.PostForm,
		Header: r.Header.Clone(),
	})
	f.mu.Unlock()

	if r.Header.Get("User-Agent") == "" {
		writeXML(w, http.StatusForbidden, "ERROR", "", "No User-Agent supplied.")
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.serveShard(w, r.URL.Query())
	case http.MethodPost:
		f.serveCommand(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeAPI) serveShard(w http.ResponseWriter, q url.Values) {
	switch q.Get("q") {
	case "delegate":
		region := q.Get("region")
		d, ok := f.Delegates[region]
		if !ok {
			writeXML(w, http.StatusNotFound, "REGION", region, "")
			return
		}
		f.writeField(w, "REGION", region, "DELEGATE", d)
	case "wanations":
		region := q.Get("region")
		members, ok := f.WANations[region]
		if !ok {
			writeXML(w, http.StatusNotFound, "REGION", region, "")
			return
		}
		f.writeField(w, "REGION", region, "UNNATIONS", strings.Join(members, ","))
	case "endorsements":
		nation := q.Get("nation")
		f.writeField(w, "NATION", nation, "ENDORSEMENTS", strings.Join(f.Endorsements[nation], ","))
	default:
		writeXML(w, http.StatusBadRequest, "ERROR", "", "Unknown shard.")
	}
}

func (f *FakeAPI) serveCommand(w http.ResponseWriter, r *http.Request) {
	nation := r.PostForm.Get("nation")
	if r.Header.Get("X-Password") != f.Password {
		writeXML(w, http.StatusForbidden, "ERROR", "", "Authentication Failed")
		return
	}
	switch r.PostForm.Get("mode") {
	case "prepare":
		if f.PrepareStatus != 0 {
			writeXML(w, f.PrepareStatus, "ERROR", "", "Prepare rejected.")
			return
		}
		if !f.OmitPin {
			w.Header().Set("X-Pin", f.Pin)
		}
		if f.OmitToken {
			writeXML(w, http.StatusOK, "NATION", nation, "<ERROR>Dispatch title is too short.</ERROR>")
			return
		}
		writeXML(w, http.StatusOK, "NATION", nation, "<SUCCESS>"+html.EscapeString(f.Token)+"</SUCCESS>")
	case "execute":
		if r.Header.Get("X-Pin") != f.Pin || r.PostForm.Get("token") != f.Token {
			writeXML(w, http.StatusConflict, "ERROR", "", "Invalid token.")
			return
		}
		writeXML(w, http.StatusOK, "NATION", nation, "<SUCCESS>Your dispatch has been published.</SUCCESS>")
	default:
		writeXML(w, http.StatusBadRequest, "ERROR", "", "Unknown mode.")
	}
}

func (f *FakeAPI) writeField(w http.ResponseWriter, root, id, name, value string) {
	inner := ""
	if !f.OmitFields[name] {
		inner = fmt.Sprintf("<%s>%s</%s>", name, html.EscapeString(value), name)
	}
	writeXML(w, http.StatusOK, root, id, inner)
}

// writeXML writes <root id="id">inner</root>. For root ERROR, inner is the
// message text and id is ignored.
func writeXML(w http.ResponseWriter, status int, root, id, inner string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	if root == "ERROR" {
		fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<ERROR>%s</ERROR>\n", html.EscapeString(inner))
		return
	}
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<%s id=%q>%s</%s>\n", root, id, inner, root)
}
