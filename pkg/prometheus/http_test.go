package prometheus

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/fortytw2/leaktest"
)

func TestServesMetricsUntilCancelled(t *testing.T) {
	defer leaktest.Check(t)()

	server, err := NewServer("127.0.0.1:0")
	if err != nil {
		t.Fatal(err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := server.Listen(ctx)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get(fmt.Sprintf("http://%s/metrics", server.Addr()))
	if err != nil {
		cancel()
		t.Fatal(err.Error())
	}
	body, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Error("unexpected status, was", resp.StatusCode)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("expected default go collector metrics")
	}

	cancel()
	<-done
}
