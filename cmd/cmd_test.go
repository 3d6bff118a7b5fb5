package cmd

import (
	"strings"
	"testing"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"github.com/msalah0e/skillgraph/internal/graph"
)

func TestServeAddr(t *testing.T) {
	tests := map[string]struct {
		flag, addrEnv, port string
		want                string
	}{
		"flag wins":   {flag: ":9000", addrEnv: ":7000", port: "6000", want: ":9000"},
		"addr env":    {addrEnv: "127.0.0.1:7000", port: "6000", want: "127.0.0.1:7000"},
		"port env":    {port: "6000", want: ":6000"},
		"from config": {want: ":8080"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SKILLGRAPH_ADDR", tc.addrEnv)
			t.Setenv("PORT", tc.port)
			if got := serveAddr(tc.flag, ":8080"); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFindNode(t *testing.T) {
	src, err := catalog.New(catalog.Document{
		Management: []catalog.Entry{{Name: "Strategic planning"}, {Name: "Fundraising"}},
	})
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	g, _ := graph.NewBuilder(src).Build(false)

	n, err := findNode(g, "strategic-planning")
	if err != nil || n.Name != "Strategic planning" {
		t.Fatalf("expected lookup by id, got %v, %v", n, err)
	}
	n, err = findNode(g, "FUNDRAISING")
	if err != nil || n.ID != "fundraising" {
		t.Fatalf("expected lookup by name, got %v, %v", n, err)
	}

	_, err = findNode(g, "planning")
	if err == nil || !strings.Contains(err.Error(), "strategic-planning") {
		t.Errorf("expected a suggestion, got %v", err)
	}
	_, err = findNode(g, "zzz")
	if err == nil || !strings.Contains(err.Error(), "no node matches") {
		t.Errorf("expected no match, got %v", err)
	}
}
